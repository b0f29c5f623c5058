package inference

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient calls an OpenAI-compatible chat-completion endpoint. It has no
// grounding capability, so grounded requests are answered from model knowledge
// alone and never carry sources. Shape constraints are enforced best-effort
// via JSON response mode plus prompt guidance.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates an OpenAI-compatible inference client. baseURL may
// point at any compatible endpoint; empty means api.openai.com.
func NewOpenAIClient(apiKey, baseURL, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (c *OpenAIClient) Name() string {
	return fmt.Sprintf("openai:%s", c.model)
}

func (c *OpenAIClient) Invoke(ctx context.Context, req Request) (*Result, error) {
	prompt := req.Prompt
	if req.Schema != nil {
		prompt += "\n\nReturn ONLY JSON matching this shape constraint:\n" + req.Schema.Describe()
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	// JSON mode requires a top-level object; array schemas rely on the
	// prompt guidance alone.
	if req.Schema != nil && req.Schema.Type == TypeObject {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrInferenceFailed)
	}

	return &Result{Text: resp.Choices[0].Message.Content}, nil
}
