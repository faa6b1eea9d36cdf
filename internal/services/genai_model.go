package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tmc/langchaingo/llms"
	"google.golang.org/api/option"
)

// GenAIModel exposes the Google generative-ai-go client as an llms.Model so
// LLMService can use either SDK.
type GenAIModel struct {
	client *genai.Client
	model  string
}

var _ llms.Model = (*GenAIModel)(nil)

func NewGenAIModel(ctx context.Context, apiKey, model string) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GenAIModel{client: client, model: model}, nil
}

func (m *GenAIModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	var parts []genai.Part
	for _, msg := range messages {
		for _, p := range msg.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				parts = append(parts, genai.Text(tc.Text))
			}
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no text in prompt")
	}

	resp, err := m.client.GenerativeModel(m.model).GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: responseText(resp)}},
	}, nil
}

func (m *GenAIModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m *GenAIModel) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// responseText joins the text parts of the first candidate. An answer with no
// text comes back as "".
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
