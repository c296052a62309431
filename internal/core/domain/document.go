package domain

import "time"

// DocumentType classifies a registered regulatory document.
type DocumentType string

// Known document types.
const (
	DocumentTypeRegulation   DocumentType = "regulation"
	DocumentTypePermit       DocumentType = "permit"
	DocumentTypeEIAReport    DocumentType = "eia_report"
	DocumentTypeGuidance     DocumentType = "guidance"
	DocumentTypeLegalOpinion DocumentType = "legal_opinion"
	DocumentTypeOther        DocumentType = "other"
)

// IsValid returns true if the document type is recognised.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeRegulation, DocumentTypePermit, DocumentTypeEIAReport,
		DocumentTypeGuidance, DocumentTypeLegalOpinion, DocumentTypeOther:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// Language is the language a document is written in.
type Language string

// Supported languages.
const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
)

// IsValid returns true if the language is supported.
func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageFrench
}

// DefaultJurisdiction is used when a document is registered without one.
const DefaultJurisdiction = "federal"

// Document is a registered document whose text can be embedded.
// The body text is not stored here; it arrives with each ingest.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// OwnerID is the user the document belongs to.
	OwnerID string

	// Title is the human-readable title.
	Title string

	// Type classifies the document.
	Type DocumentType

	// Jurisdiction is the governing jurisdiction, e.g. "federal" or "ontario".
	Jurisdiction string

	// Language is the document language.
	Language Language

	// Description is an optional free-text summary.
	Description string

	// CreatedAt is when the document was registered.
	CreatedAt time.Time

	// UpdatedAt is when the document was last modified.
	UpdatedAt time.Time
}

// Summary returns the minimal display metadata of the document.
func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:           d.ID,
		Title:        d.Title,
		Type:         d.Type,
		Jurisdiction: d.Jurisdiction,
		Language:     d.Language,
	}
}

// DocumentSummary is the owning-document metadata joined into search results.
type DocumentSummary struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Type         DocumentType `json:"type"`
	Jurisdiction string       `json:"jurisdiction"`
	Language     Language     `json:"language"`
}

// Chunk is a contiguous window of document text produced by the chunker.
type Chunk struct {
	// DocumentID links to the owning Document.
	DocumentID string

	// Index is the zero-based position among the document's chunks.
	Index int

	// Content is the exact substring.
	Content string
}
