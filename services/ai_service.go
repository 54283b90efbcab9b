// services/ai_service.go - Optional LLM-backed answer validation and hints
package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"oraculo/logger"
	"oraculo/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnswerValidator decides whether a submitted answer is correct.
// Implementations may be unavailable-by-config; the exact-match rules are
// always the floor.
type AnswerValidator interface {
	Validate(ctx context.Context, challenge *models.Challenge, answer string) (bool, error)
}

// HintGenerator produces a hint for a challenge. The stored hint is the
// fallback when no generator is configured.
type HintGenerator interface {
	GenerateHint(ctx context.Context, challenge *models.Challenge, attempts int) (string, error)
}

// ExactMatchValidator applies the deterministic comparison rules: code
// challenges compare case-sensitively, everything else case-insensitively.
type ExactMatchValidator struct{}

func (ExactMatchValidator) Validate(_ context.Context, challenge *models.Challenge, answer string) (bool, error) {
	answer = strings.TrimSpace(answer)
	if challenge.ChallengeType == models.ChallengeTypeCode {
		return answer == challenge.ExpectedAnswer, nil
	}
	return strings.EqualFold(answer, challenge.ExpectedAnswer), nil
}

// StoredHintGenerator returns the hint authored with the challenge.
type StoredHintGenerator struct{}

func (StoredHintGenerator) GenerateHint(_ context.Context, challenge *models.Challenge, _ int) (string, error) {
	if challenge.Hint == "" {
		return "", ErrNotFound
	}
	return challenge.Hint, nil
}

// AnthropicService implements both capabilities against the Anthropic
// API, degrading to the deterministic implementations on any failure.
type AnthropicService struct {
	client   *anthropic.Client
	model    string
	fallback ExactMatchValidator
	hints    StoredHintGenerator
}

func NewAnthropicService() *AnthropicService {
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &AnthropicService{client: &client, model: model}
}

func (s *AnthropicService) complete(ctx context.Context, system, prompt string) (string, error) {
	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (s *AnthropicService) Validate(ctx context.Context, challenge *models.Challenge, answer string) (bool, error) {
	// Exact match is authoritative when it passes; the model only
	// rescues answers that are semantically right but textually off.
	if ok, _ := s.fallback.Validate(ctx, challenge, answer); ok {
		return true, nil
	}
	if challenge.ChallengeType == models.ChallengeTypeCode {
		// Code answers stay strict
		return false, nil
	}

	prompt := fmt.Sprintf(
		"Question: %s\nExpected answer: %s\nSubmitted answer: %s\n\nIs the submitted answer equivalent in meaning to the expected answer? Reply with exactly CORRECT or INCORRECT.",
		challenge.Description, challenge.ExpectedAnswer, answer)

	reply, err := s.complete(ctx, "You grade helpdesk quiz answers. Reply with a single word.", prompt)
	if err != nil {
		logger.Get().WithError(err).Warn("AI validation unavailable, using exact match")
		return s.fallback.Validate(ctx, challenge, answer)
	}
	return strings.Contains(strings.ToUpper(reply), "CORRECT") &&
		!strings.Contains(strings.ToUpper(reply), "INCORRECT"), nil
}

func (s *AnthropicService) GenerateHint(ctx context.Context, challenge *models.Challenge, attempts int) (string, error) {
	prompt := fmt.Sprintf(
		"Challenge: %s\n\n%s\nThe user has made %d failed attempts. Give one short hint that nudges them toward the answer without revealing it.",
		challenge.Title, challenge.Description, attempts)

	reply, err := s.complete(ctx, "You write concise hints for IT helpdesk challenges.", prompt)
	if err != nil {
		logger.Get().WithError(err).Warn("AI hint unavailable, using stored hint")
		return s.hints.GenerateHint(ctx, challenge, attempts)
	}
	return strings.TrimSpace(reply), nil
}

// NewAnswerCapabilities wires the validator and hint generator from the
// environment: the Anthropic-backed pair when an API key is configured,
// plain deterministic implementations otherwise.
func NewAnswerCapabilities() (AnswerValidator, HintGenerator) {
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		ai := NewAnthropicService()
		logger.Get().WithField("model", ai.model).Info("AI answer capabilities enabled")
		return ai, ai
	}
	return ExactMatchValidator{}, StoredHintGenerator{}
}
