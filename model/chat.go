package model

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"faq/types"

	"github.com/sashabaranov/go-openai"
)

// DefaultTemperature keeps answers mostly deterministic.
const DefaultTemperature float32 = 0.3

// Generator turns a prompt into an answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatModel generates answers through the OpenAI chat completions API.
type ChatModel struct {
	client      *openai.Client
	model       string
	temperature float32
	retry       RetryPolicy

	// CountTokens, when set, is used to log the prompt size.
	CountTokens func(model, text string) (int, error)
}

func NewChatModel(client *openai.Client, model string, retry RetryPolicy) *ChatModel {
	return &ChatModel{
		client:      client,
		model:       model,
		temperature: DefaultTemperature,
		retry:       retry,
	}
}

func (m *ChatModel) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	defer func() {
		log.Printf("[LLM] answer took %v", time.Since(start))
	}()

	if m.CountTokens != nil {
		if n, err := m.CountTokens(m.model, prompt); err == nil {
			log.Printf("[LLM] prompt size: %d tokens, %d bytes", n, len(prompt))
		}
	}

	var resp openai.ChatCompletionResponse
	err := m.retry.Do(ctx, "chat completion", func() error {
		var err error
		resp, err = m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: m.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: m.temperature,
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrGenerationService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", types.ErrGenerationService)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
