package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Roles accepted by the completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn sent to the completion service.
type Message struct {
	Role    string
	Content string
}

// Options tune a single completion call.
type Options struct {
	Temperature     float32
	MaxOutputTokens int
	// Structured asks the service for a single JSON object instead of free text.
	Structured bool
}

// Client is the completion service used by the simulation core. The system
// prompt is always sent first, followed by the transcript in order.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, transcript []Message, opts Options) (string, error)
}

// UpstreamError reports a failed call to the completion service.
// StatusCode is zero when the request never got an HTTP response.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion service returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion service request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Config holds the settings for OpenAIClient.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIClient calls the OpenAI chat completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed client. An empty model falls
// back to gpt-4-turbo; an empty base URL keeps the library default.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	oaCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oaCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4Turbo
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(oaCfg),
		model:  model,
	}
}

// Complete sends the system prompt and transcript and returns the content of
// the first choice. An empty choice list yields an empty string, not an error.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt string, transcript []Message, opts Options) (string, error) {
	if c.client == nil {
		return "", &UpstreamError{Err: errors.New("openai client not initialized")}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(systemPrompt, transcript),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxOutputTokens,
	}
	if opts.Structured {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &UpstreamError{StatusCode: statusOf(err), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(systemPrompt string, transcript []Message) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(transcript)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, m := range transcript {
		role := m.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			// coerce anything unknown to user
			role = openai.ChatMessageRoleUser
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return msgs
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
