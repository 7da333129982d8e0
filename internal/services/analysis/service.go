// Package analysis orchestrates streaming LLM analysis of filing text:
// summarize a section, diff two filings year-over-year, or answer free-form
// questions with conversation history.
package analysis

import (
	"context"
	"fmt"

	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/interfaces"
	"github.com/bobmcallan/filinglens/internal/models"
)

// Default character budgets for document text handed to the model. The
// budgets bound prompt size, not model output.
const (
	DefaultSummarizeCharBudget = 100_000
	DefaultDiffCharBudget      = 80_000
	DefaultChatCharBudget      = 100_000
)

// Service implements the AnalysisService interface
type Service struct {
	llm    interfaces.LLMClient
	logger *common.Logger

	summarizeBudget int
	diffBudget      int
	chatBudget      int
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithBudgets overrides the per-kind document character budgets. Zero
// values keep the defaults.
func WithBudgets(summarize, diff, chat int) ServiceOption {
	return func(s *Service) {
		if summarize > 0 {
			s.summarizeBudget = summarize
		}
		if diff > 0 {
			s.diffBudget = diff
		}
		if chat > 0 {
			s.chatBudget = chat
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new analysis service
func NewService(llm interfaces.LLMClient, opts ...ServiceOption) *Service {
	s := &Service{
		llm:             llm,
		logger:          common.NewSilentLogger(),
		summarizeBudget: DefaultSummarizeCharBudget,
		diffBudget:      DefaultDiffCharBudget,
		chatBudget:      DefaultChatCharBudget,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analyze validates the request, builds the instruction and message
// sequence for the analysis kind, and forwards model text fragments to
// emit in arrival order. Validation failures return before any fragment is
// emitted; a provider failure mid-stream surfaces as ErrProviderStream and
// already-emitted fragments stand.
func (s *Service) Analyze(ctx context.Context, req *models.AnalyzeRequest, emit func(fragment string) error) error {
	if req.Text == "" {
		return fmt.Errorf("%w: no text provided", common.ErrValidation)
	}

	var userMessage string
	switch req.AnalysisType {
	case models.AnalysisDiff:
		if req.PreviousText == "" {
			return fmt.Errorf("%w: previous year text is required for diff analysis", common.ErrValidation)
		}
		userMessage = buildDiffMessage(req.Text, req.PreviousText, s.diffBudget)

	case models.AnalysisChat:
		if req.Question == "" {
			return fmt.Errorf("%w: question is required for chat analysis", common.ErrValidation)
		}
		userMessage = buildChatMessage(req.Text, req.Question, s.chatBudget)

	default:
		userMessage = buildSummarizeMessage(req.Text, req.SectionName, s.summarizeBudget)
	}

	genReq := &models.GenerationRequest{
		SystemPrompt: systemPrompt(req.AnalysisType),
	}

	// Prior turns are replayed only for chat, in original order.
	if req.AnalysisType == models.AnalysisChat {
		for _, turn := range req.ChatHistory {
			role := "user"
			if turn.Role == "assistant" {
				role = "model"
			}
			genReq.Messages = append(genReq.Messages, models.GenerationMessage{
				Role:    role,
				Content: turn.Content,
			})
		}
	}

	genReq.Messages = append(genReq.Messages, models.GenerationMessage{
		Role:    "user",
		Content: userMessage,
	})

	s.logger.Info().
		Str("type", string(req.AnalysisType)).
		Str("section", req.SectionName).
		Int("history", len(req.ChatHistory)).
		Int("prompt_chars", len(userMessage)).
		Msg("Starting analysis stream")

	return s.llm.StreamGenerate(ctx, genReq, emit)
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
