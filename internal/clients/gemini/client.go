// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/bobmcallan/filinglens/internal/common"
	"github.com/bobmcallan/filinglens/internal/interfaces"
	"github.com/bobmcallan/filinglens/internal/models"
)

const (
	DefaultModel           = "gemini-2.0-flash"
	DefaultMaxOutputTokens = 4096
)

// Client implements the LLMClient interface
type Client struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
	logger          *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxOutputTokens sets the output token budget per generation
func WithMaxOutputTokens(tokens int) ClientOption {
	return func(c *Client) {
		if tokens > 0 {
			c.maxOutputTokens = int32(tokens)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:          genaiClient,
		model:           DefaultModel,
		maxOutputTokens: DefaultMaxOutputTokens,
		logger:          common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close closes the client
func (c *Client) Close() error {
	// The genai client doesn't have a Close method
	return nil
}

// StreamGenerate runs a streaming generation call, forwarding each text
// fragment to emit as it arrives. Fragments are delivered in model order;
// no buffering or batching happens here. An error from emit (typically a
// disconnected caller) stops forwarding immediately.
func (c *Client) StreamGenerate(ctx context.Context, req *models.GenerationRequest, emit func(fragment string) error) error {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == "model" || m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: c.maxOutputTokens,
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	c.logger.Debug().Str("model", c.model).Int("messages", len(contents)).Msg("Starting streaming generation")

	fragments := 0
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, contents, config) {
		if err != nil {
			c.logger.Warn().Err(err).Str("model", c.model).Int("fragments", fragments).Msg("Streaming generation failed")
			return fmt.Errorf("%w: %v", common.ErrProviderStream, err)
		}

		text := extractTextFromResponse(resp)
		if text == "" {
			continue
		}

		if err := emit(text); err != nil {
			return err
		}
		fragments++
	}

	c.logger.Debug().Str("model", c.model).Int("fragments", fragments).Msg("Streaming generation complete")

	return nil
}

// extractTextFromResponse concatenates the text parts of a streamed chunk.
func extractTextFromResponse(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	text := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text
}

// Ensure Client implements LLMClient
var _ interfaces.LLMClient = (*Client)(nil)
