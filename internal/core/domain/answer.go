package domain

// Answer defaults.
const (
	DefaultLanguage = LanguageEnglish

	// DefaultAnswerSources is the number of passages handed to the model
	// when the request leaves Limit at zero.
	DefaultAnswerSources = 5

	// MaxAnswerContextRunes bounds the passage text placed in the prompt.
	MaxAnswerContextRunes = 12000
)

// AnswerRequest asks for a drafted answer grounded in the caller's
// ingested documents. Zero Limit and nil Threshold select the defaults;
// empty Jurisdiction and Language select DefaultJurisdiction and
// DefaultLanguage.
type AnswerRequest struct {
	Question     string
	Jurisdiction string
	Language     Language
	Limit        int
	Threshold    *float64
}

// AnswerResult is a drafted answer and the passages it was drafted from.
// Sources are numbered from 1 in the order the prompt cites them.
type AnswerResult struct {
	Question     string     `json:"question"`
	Answer       string     `json:"answer"`
	Jurisdiction string     `json:"jurisdiction"`
	Language     Language   `json:"language"`
	Model        string     `json:"model,omitempty"`
	Sources      []QueryHit `json:"sources"`
}
