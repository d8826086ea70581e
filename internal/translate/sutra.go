package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// SutraTranslator talks to the SUTRA multilingual model through its
// OpenAI-compatible completion endpoint.
type SutraTranslator struct {
	client openai.Client
	model  string
}

func NewSutraTranslator(apiKey, baseURL, model string) *SutraTranslator {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.two.ai/v2"
	}
	if strings.TrimSpace(model) == "" {
		model = "sutra-v2"
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	return &SutraTranslator{client: client, model: strings.TrimSpace(model)}
}

func (t *SutraTranslator) Detect(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Detect the language of this text and return only the language name: %s", text)
	return t.complete(ctx, prompt)
}

func (t *SutraTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	prompt := fmt.Sprintf("Translate this text to %s: %s", target, text)
	return t.complete(ctx, prompt)
}

func (t *SutraTranslator) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(t.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("sutra completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("sutra returned no choices")
	}

	// No structured schema is enforced on the response beyond trimming.
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
