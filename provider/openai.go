package provider

import (
	"context"
	"fmt"
	"strings"

	chatlate "github.com/ZaguanLabs/chatlate"
	"github.com/sashabaranov/go-openai"
)

// OpenAI translates with an OpenAI-compatible chat completion endpoint.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI engine.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAI creates an OpenAI engine.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &chatlate.ValidationError{Field: "OpenAIAPIkey", Message: "OpenAI API key is required"}
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}, nil
}

// Translate implements chatlate.Client.
func (p *OpenAI) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", &chatlate.BackendError{Engine: chatlate.EngineOpenAI, Message: "chat completion failed", Cause: err}
	}

	if len(resp.Choices) == 0 {
		return "", &chatlate.BackendError{Engine: chatlate.EngineOpenAI, Message: "no choices returned"}
	}

	return cleanResponse(resp.Choices[0].Message.Content), nil
}

func buildSystemPrompt(sourceLang, targetLang string) string {
	sourceName := chatlate.GetLanguageName(sourceLang)
	targetName := chatlate.GetLanguageName(targetLang)

	prompt := fmt.Sprintf(`# Role
You are a translation engine inside a chat application. You translate %s chat messages into %s.

# Rules
- Reply with the translation only. No notes, no quotes, no explanations.
- Translate naturally, as a native %s speaker would write in a chat.
- Keep every word that starts with PLACEHOLDER_ exactly as it is.
- Keep standalone symbols (such as @ or ~) where they are; they mark line breaks and names.
- Keep URLs, code and numbers unchanged.`, sourceName, targetName, targetName)

	if chatlate.IsRTL(targetLang) {
		prompt += "\n- Write in the target script; do not add direction marks."
	}

	return prompt
}

// cleanResponse strips a code fence some models wrap their answer in.
func cleanResponse(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		s = strings.TrimSpace(s[3 : len(s)-3])
		if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.Contains(s[:i], " ") {
			s = strings.TrimSpace(s[i+1:])
		}
	}
	return s
}

var _ chatlate.Client = (*OpenAI)(nil)
