// Package file provides the TOML-backed configuration store.
//
// Keys are addressed in dot notation ("embedding.provider") and written
// back as nested tables, so the file stays hand-editable:
//
//	[embedding]
//	provider = "huggingface"
//	batch_size = 10
package file
