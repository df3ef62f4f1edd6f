// Package llm wraps the hosted model API. All three model roles (chat,
// classifier, dashboard) go through one client pointed at an
// OpenAI-compatible endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ErrNoAPIKey is returned when neither the request nor the client carries
// a usable API key.
var ErrNoAPIKey = errors.New("llm: api key not configured")

// Message is one chat message in a completion request.
type Message struct {
	Role    string
	Content string
}

// JSONSchemaFormat requests structured output matching a JSON schema.
type JSONSchemaFormat struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Request describes one completion call.
type Request struct {
	Model    string
	APIKey   string // overrides the client default when set
	Messages []Message
	Format   *JSONSchemaFormat
}

// Completer is the interface the rest of the system depends on.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config configures the model API client.
type Config struct {
	BaseURL string
	APIKey  string
	Referer string
	Title   string
	Timeout time.Duration
}

// Client calls the model API with bounded retries.
type Client struct {
	api        openai.Client
	defaultKey string
}

// NewClient builds a client for the configured endpoint. The Referer and
// Title headers identify the application to the inference provider.
func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.Referer))
	}
	if cfg.Title != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.Title))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Client{api: openai.NewClient(opts...), defaultKey: cfg.APIKey}
}

// Complete sends one chat completion request and returns the reply text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if req.Model == "" {
		return "", errors.New("llm: model is empty")
	}
	key := req.APIKey
	if key == "" {
		key = c.defaultKey
	}
	if key == "" {
		return "", ErrNoAPIKey
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: toMessageParams(req.Messages),
	}
	if req.Format != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        req.Format.Name,
					Description: openai.String(req.Format.Description),
					Schema:      req.Format.Schema,
					Strict:      openai.Bool(true),
				},
			},
		}
	}

	resp, err := c.callWithRetry(ctx, params, option.WithAPIKey(key))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func toMessageParams(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func (c *Client) callWithRetry(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	const maxRetries = 3
	rateLimitWaitTimes := []time.Duration{5 * time.Second, 15 * time.Second, 30 * time.Second}
	serverErrorWaitTimes := []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second}

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := c.api.Chat.Completions.New(ctx, params, opts...)
		if err != nil {
			if isRateLimitError(err) {
				if attempt < maxRetries-1 {
					if werr := wait(ctx, rateLimitWaitTimes[attempt]); werr != nil {
						return nil, werr
					}
					continue
				}
			} else if isServerError(err) {
				if attempt < maxRetries-1 {
					if werr := wait(ctx, serverErrorWaitTimes[attempt]); werr != nil {
						return nil, werr
					}
					continue
				}
			}
			return nil, err
		}
		return resp, nil
	}
	return nil, fmt.Errorf("llm: failed after %d attempts", maxRetries)
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}
