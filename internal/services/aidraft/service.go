// Package aidraft builds dispute response prompts and forwards them to
// the LLM gateway.
package aidraft

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"disputekit/internal/models"
)

const (
	maxTokens   = 1000
	temperature = 0.7
)

var ErrGenerationFailed = errors.New("failed to generate response")

// Completer is the LLM gateway surface drafting needs.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

type Service struct {
	llm Completer
}

func NewService(llm Completer) *Service {
	return &Service{llm: llm}
}

// Draft composes the prompt for the dispute and returns the generated
// response text. Any gateway failure surfaces as a single generic
// error; no retry is performed.
func (s *Service) Draft(ctx context.Context, dispute *models.Dispute) (string, error) {
	prompt := BuildPrompt(dispute)

	text, err := s.llm.Complete(ctx, prompt, maxTokens, temperature)
	if err != nil {
		log.Printf("OpenRouter error: %v", err)
		return "", ErrGenerationFailed
	}
	return text, nil
}

// BuildPrompt interpolates dispute fields into the template selected by
// the reason code.
func BuildPrompt(dispute *models.Dispute) string {
	reason := dispute.Reason
	if reason == "" {
		reason = "uncategorized"
	}
	template := TemplateFor(reason)

	currency := strings.ToUpper(dispute.Currency)
	if currency == "" {
		currency = "USD"
	}

	chargeID := dispute.ChargeID
	if chargeID == "" {
		chargeID = "N/A"
	}

	transactionDate := "N/A"
	if !dispute.CreatedAt.IsZero() {
		transactionDate = dispute.CreatedAt.Format("1/2/2006")
	}

	return fmt.Sprintf(`%s

Dispute Details:
- Charge Amount: $%.2f %s
- Dispute Reason: %s
- Charge ID: %s
- Transaction Date: %s
- Customer Payment Method: %s ending in %s

Write a compelling dispute response (200-400 words) that addresses all relevant points. Use a professional but firm tone.`,
		template,
		float64(dispute.Amount)/100,
		currency,
		strings.ReplaceAll(reason, "_", " "),
		chargeID,
		transactionDate,
		dispute.CardBrand(),
		dispute.CardLast4(),
	)
}
