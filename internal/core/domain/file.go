package domain

// RawDocument is an uploaded file before its text is extracted.
type RawDocument struct {
	// URI is the file name or path. Its extension selects the format when
	// MIMEType is empty.
	URI string

	// MIMEType is the declared content type, possibly with parameters.
	MIMEType string

	// Content is the file body.
	Content []byte
}

// IngestFileRequest ingests a file into a document after extracting its text.
type IngestFileRequest struct {
	DocumentID string
	Filename   string
	MIMEType   string
	Data       []byte
	ChunkSize  int
	Overlap    *int
	Model      string
}
