// Package chat implements the investment mentor conversation.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/ecos"
	"github.com/ternarybob/finmate/internal/models"
	"github.com/ternarybob/finmate/internal/services/llm"
)

// glossaryClient is the slice of the ECOS client this service needs.
type glossaryClient interface {
	SearchGlossary(ctx context.Context, term string) (*ecos.GlossaryEntry, error)
}

// Mode prefixes steer the register of the AI reply.
const (
	easyModePrefix = "[모드: 주린이에게 쉽게, 친절하게 설명해줘]\n"
	proModePrefix  = "[모드: 전문가에게 심층 분석하듯 답변해줘]\n"
)

// systemPersona keeps replies short and grounded.
const systemPersona = "당신은 Fin-Mate의 주식 투자 컨설턴트입니다. " +
	"사실이 아닌 내용을 지어내지 말고, 모르는 것은 모른다고 답하세요. " +
	"답변은 3줄 이내로 간결하게 작성하세요."

// Service answers mentor chat requests, consulting the statistical glossary
// before falling back to the AI.
type Service struct {
	glossary     glossaryClient
	generator    llm.Generator
	logger       arbor.ILogger
	historyLimit int
}

// NewService creates a chat service.
func NewService(glossary glossaryClient, generator llm.Generator, historyLimit int, logger arbor.ILogger) *Service {
	return &Service{
		glossary:     glossary,
		generator:    generator,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// Reply produces the mentor's answer. Short term-like messages are first
// looked up in the glossary; everything else goes to the AI with the recent
// conversation as context.
func (s *Service) Reply(ctx context.Context, req *models.ChatRequest) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	if looksLikeTerm(message) {
		if entry, err := s.glossary.SearchGlossary(ctx, message); err != nil {
			s.logger.Warn().
				Err(err).
				Msg("Glossary lookup failed, falling back to AI")
		} else if entry != nil {
			return formatGlossaryReply(req.Mode, entry), nil
		}
	}

	return s.generateReply(ctx, req, message)
}

// looksLikeTerm reports whether a message reads like a single glossary term
// rather than a conversational question.
func looksLikeTerm(message string) bool {
	if strings.ContainsAny(message, "?？.!\n") {
		return false
	}
	return len(strings.Fields(message)) <= 2
}

// formatGlossaryReply renders a glossary hit per the requested mode.
func formatGlossaryReply(mode models.ChatMode, entry *ecos.GlossaryEntry) string {
	if mode == models.ChatModePro {
		return fmt.Sprintf("📊 %s\n%s", entry.Word, entry.Content)
	}
	return fmt.Sprintf("📘 %s\n%s", entry.Word, entry.Content)
}

// generateReply builds the conversation prompt and asks the AI.
func (s *Service) generateReply(ctx context.Context, req *models.ChatRequest, message string) (string, error) {
	history := req.History
	if len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPersona})

	for _, turn := range history {
		role := "user"
		content := "사용자: " + turn.Text
		if turn.Role == "ai" {
			role = "assistant"
			content = "컨설턴트: " + turn.Text
		}
		messages = append(messages, llm.Message{Role: role, Content: content})
	}

	prefix := easyModePrefix
	if req.Mode == models.ChatModePro {
		prefix = proModePrefix
	}
	messages = append(messages, llm.Message{Role: "user", Content: prefix + message})

	resp, err := s.generator.GenerateContent(ctx, &llm.ContentRequest{
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate chat reply: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}
