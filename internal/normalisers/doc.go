// Package normalisers extracts plain text from the file formats regulations
// are published in. Each sub-package handles one format; the Registry in
// this package dispatches on MIME type.
//
// Normalisers are registered with the Registry at startup.
package normalisers
