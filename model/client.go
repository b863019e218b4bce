package model

import (
	"github.com/sashabaranov/go-openai"
)

// NewClient returns an OpenAI client. baseURL may be empty for the public API.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
