package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAIClient implements LLMClient against an OpenAI-compatible chat completions API.
type openAIClient struct {
	cfg      LLMConfig
	api      openai.Client
	observer Observer
}

// NewOpenAIClient creates an LLMClient for the OpenAI chat completions API.
// The SDK's built-in retries are disabled; a failed call fails the request.
func NewOpenAIClient(cfg LLMConfig, observer Observer) LLMClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIClient{
		cfg:      cfg,
		api:      openai.NewClient(opts...),
		observer: observerOrNoop(observer),
	}
}

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	temp, maxTok := c.cfg.resolveParams(req)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.TaskTimeout(req.Task))
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	params := openai.ChatCompletionNewParams{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: openai.Float(temp),
	}
	if maxTok > 0 {
		params.MaxTokens = openai.Int(int64(maxTok))
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	latency := time.Since(start).Milliseconds()

	var text, model string
	if err == nil {
		model = resp.Model
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			err = ErrEmptyResponse
		} else {
			text = resp.Choices[0].Message.Content
		}
	} else if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = ErrTimeout
	} else if errors.Is(ctx.Err(), context.Canceled) {
		err = fmt.Errorf("llm request: %w", context.Canceled)
	} else {
		var apiErr *openai.Error
		if !errors.As(err, &apiErr) {
			err = fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
	}

	event := LLMCallEvent{
		Task:      req.Task,
		Provider:  ProviderOpenAI,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	}
	c.observer.OnCallComplete(event)

	if err != nil {
		return nil, err
	}
	return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
}

// Available reports whether a credential is present. The public API has no
// cheap unauthenticated health probe, so reachability is proven by the first call.
func (c *openAIClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}
