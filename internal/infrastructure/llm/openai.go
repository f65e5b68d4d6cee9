package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"colonoscopy-scheduler/config"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrInvalidCredentials = errors.New("completion api rejected credentials")
	ErrRateLimited        = errors.New("completion api rate limit exceeded")
	ErrQuotaExceeded      = errors.New("completion api quota exhausted")
	ErrUpstream           = errors.New("completion api request failed")
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Error codes reported in the body of failed OpenAI responses.
const (
	codeInvalidAPIKey     = "invalid_api_key"
	codeRateLimitExceeded = "rate_limit_exceeded"
	codeInsufficientQuota = "insufficient_quota"
)

// Completer produces the assistant reply for a system prompt and the
// patient's latest message.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// CompletionParams are the sampling settings applied to every request.
type CompletionParams struct {
	MaxTokens   int
	Temperature float32
}

// OpenAIClient calls the OpenAI chat completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	params CompletionParams
}

func NewOpenAIClient(cfg config.OpenAIConfig, params CompletionParams) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		params: params,
	}
}

// Complete sends a two-message exchange and returns the first choice. Errors
// wrap one of the package sentinels so callers can tell credential, rate
// limit and quota failures apart.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		MaxTokens:   c.params.MaxTokens,
		Temperature: c.params.Temperature,
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrUpstream)
	}

	return resp.Choices[0].Message.Content, nil
}

func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		switch {
		case code == codeInvalidAPIKey:
			return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		case code == codeInsufficientQuota:
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		case code == codeRateLimitExceeded:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		if sentinel := classifyStatus(apiErr.HTTPStatusCode); sentinel != nil {
			return fmt.Errorf("%w: %v", sentinel, err)
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if sentinel := classifyStatus(reqErr.HTTPStatusCode); sentinel != nil {
			return fmt.Errorf("%w: %v", sentinel, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

func classifyStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}
