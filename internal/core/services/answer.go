package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/minereg/internal/core/domain"
	"github.com/custodia-labs/minereg/internal/core/ports/driven"
	"github.com/custodia-labs/minereg/internal/core/ports/driving"
	"github.com/custodia-labs/minereg/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Generation parameters for drafted answers.
const (
	answerMaxTokens   = 1500
	answerTemperature = 0.3
	maxQuestionRunes  = 2000
)

// AnswerService drafts answers to legal questions from the passages the
// retrieval service ranks highest.
type AnswerService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
}

// NewAnswerService creates a new answer service. llm may be nil when no
// provider is configured; Answer then fails with domain.ErrLLMUnavailable.
func NewAnswerService(retrieval driving.RetrievalService, llm driven.LLMService) *AnswerService {
	return &AnswerService{retrieval: retrieval, llm: llm}
}

// Answer retrieves the passages most similar to the question and asks the
// model to answer from them alone. When no passage clears the threshold
// the model is not called and a fixed notice is returned.
func (s *AnswerService) Answer(
	ctx context.Context, userID string, req domain.AnswerRequest,
) (*domain.AnswerResult, error) {
	logger.Section("Answer")

	if err := requirePrincipal(userID); err != nil {
		return nil, err
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(question) > maxQuestionRunes {
		return nil, fmt.Errorf("%w: question exceeds %d characters", domain.ErrInvalidInput, maxQuestionRunes)
	}
	lang := req.Language
	if lang == "" {
		lang = domain.DefaultLanguage
	}
	if !lang.IsValid() {
		return nil, fmt.Errorf("%w: language %q must be en or fr", domain.ErrInvalidInput, lang)
	}
	jurisdiction := strings.TrimSpace(req.Jurisdiction)
	if jurisdiction == "" {
		jurisdiction = domain.DefaultJurisdiction
	}
	if s.llm == nil {
		return nil, fmt.Errorf("%w: set llm.provider to draft answers", domain.ErrLLMUnavailable)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = domain.DefaultAnswerSources
	}
	found, err := s.retrieval.Query(ctx, userID, domain.QueryRequest{
		Text:      question,
		Limit:     limit,
		Threshold: req.Threshold,
	})
	if err != nil {
		return nil, err
	}

	result := &domain.AnswerResult{
		Question:     question,
		Jurisdiction: jurisdiction,
		Language:     lang,
		Sources:      fitContext(found.Results, domain.MaxAnswerContextRunes),
	}
	if len(result.Sources) == 0 {
		logger.Info("No passages above threshold, model not called")
		result.Answer = noSourcesNotice(lang)
		return result, nil
	}

	done := logger.Timed(fmt.Sprintf("drafting answer from %d passages", len(result.Sources)))
	answer, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: systemPrompt(jurisdiction, lang)},
		{Role: driven.RoleUser, Content: userPrompt(question, result.Sources, lang)},
	}, driven.ChatOptions{MaxTokens: answerMaxTokens, Temperature: answerTemperature})
	done()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	result.Answer = strings.TrimSpace(answer)
	result.Model = s.llm.ModelName()
	return result, nil
}

// fitContext keeps hits in rank order until their combined content would
// exceed budget runes. The top hit is always kept, truncated if needed.
func fitContext(hits []domain.QueryHit, budget int) []domain.QueryHit {
	out := make([]domain.QueryHit, 0, len(hits))
	used := 0
	for _, h := range hits {
		n := utf8.RuneCountInString(h.Content)
		if used+n > budget {
			if len(out) == 0 {
				h.Content = string([]rune(h.Content)[:budget])
				out = append(out, h)
			}
			break
		}
		used += n
		out = append(out, h)
	}
	return out
}

func systemPrompt(jurisdiction string, lang domain.Language) string {
	if lang == domain.LanguageFrench {
		return fmt.Sprintf(`Vous êtes un assistant juridique spécialisé en droit minier canadien.
Répondez en français, dans le contexte de la juridiction %s.
Fondez-vous uniquement sur les extraits numérotés fournis et citez-les sous la forme [n].
Si les extraits ne permettent pas de répondre, dites-le clairement.`, jurisdiction)
	}
	return fmt.Sprintf(`You are a legal assistant specialising in Canadian mining law.
Answer in English, in the context of %s jurisdiction.
Rely only on the numbered passages provided and cite them as [n].
If the passages do not answer the question, say so plainly.`, jurisdiction)
}

func userPrompt(question string, sources []domain.QueryHit, lang domain.Language) string {
	var b strings.Builder
	heading, label := "Passages", "Question"
	if lang == domain.LanguageFrench {
		heading = "Extraits"
	}
	b.WriteString(heading)
	b.WriteString(":\n")
	for i, src := range sources {
		fmt.Fprintf(&b, "\n[%d] %s\n%s\n", i+1, sourceLabel(src), src.Content)
	}
	fmt.Fprintf(&b, "\n%s: %s", label, question)
	return b.String()
}

func sourceLabel(h domain.QueryHit) string {
	title := h.Document.Title
	if title == "" {
		title = h.DocumentID
	}
	return fmt.Sprintf("%s, chunk %d", title, h.ChunkIndex)
}

func noSourcesNotice(lang domain.Language) string {
	if lang == domain.LanguageFrench {
		return "Aucun extrait pertinent n'a été trouvé dans vos documents pour répondre à cette question."
	}
	return "No relevant passages were found in your documents to answer this question."
}
