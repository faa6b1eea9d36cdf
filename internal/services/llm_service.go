package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const (
	DescriptionEmpty  = "Could not generate description."
	DescriptionFailed = "Error generating content. Please check your API key."

	descriptionPrompt = `Write a professional and attractive job description for a "%s" position at "%s".
Key required skills: %s.
Keep it concise (under 150 words) and use bullet points for responsibilities.`
)

type LLMService struct {
	Client  llms.Model
	Timeout time.Duration
}

// NewLLMService builds the langchaingo Gemini client.
func NewLLMService(ctx context.Context, apiKey, model string, timeout time.Duration) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &LLMService{Client: llm, Timeout: timeout}, nil
}

// GenerateJobDescription never fails: on any error the user gets a fixed
// notice in place of the description. One attempt, no retries.
func (s *LLMService) GenerateJobDescription(ctx context.Context, title, company, skills string) string {
	if s == nil || s.Client == nil {
		log.Println("⚠️  Description generator not configured")
		return DescriptionFailed
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(descriptionPrompt, title, company, skills)
	resp, err := s.generate(ctx, prompt)
	if err != nil {
		log.Printf("❌ Error generating job description: %v", err)
		return DescriptionFailed
	}
	if strings.TrimSpace(resp) == "" {
		return DescriptionEmpty
	}
	return resp
}

// generate shields callers from a panicking client.
func (s *LLMService) generate(ctx context.Context, prompt string) (resp string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
}
