// Package llm holds the two external model collaborators: the chat client
// used for structured extraction and the embedding provider used by
// deduplication. Both speak the OpenAI wire protocol, which Ollama exposes
// for local models under /v1.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ppiankov/callsift/internal/model"
)

// ModelClient sends a rendered prompt to a model and returns the raw
// response text. Validation against the extraction schema happens at the
// extractor boundary, not here.
type ModelClient interface {
	Invoke(ctx context.Context, req Request) (string, error)
}

// Request is one inference call.
type Request struct {
	Model  string
	System string
	Prompt string
}

// Client is the OpenAI-compatible ModelClient implementation.
type Client struct {
	api *openai.Client
	cfg model.LLMConfig
}

// NewClient builds a chat client against cfg.BaseURL. Local endpoints accept
// any non-empty key, so a placeholder is used when none is configured.
func NewClient(cfg model.LLMConfig) *Client {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "ollama"
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return &Client{api: openai.NewClientWithConfig(clientConfig), cfg: cfg}
}

// Invoke performs one chat completion with the deterministic sampling
// settings from the config (fixed seed, low temperature).
func (c *Client) Invoke(ctx context.Context, req Request) (string, error) {
	timeout := c.cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	seed := c.cfg.Seed
	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
		Seed:        &seed,
		MaxTokens:   c.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// IsAvailable checks whether the endpoint answers at all.
func (c *Client) IsAvailable(ctx context.Context) bool {
	_, err := c.api.ListModels(ctx)
	return err == nil
}
