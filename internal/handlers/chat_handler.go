package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/finmate/internal/models"
)

// ChatMentor produces mentor replies for the chat endpoint.
type ChatMentor interface {
	Reply(ctx context.Context, req *models.ChatRequest) (string, error)
}

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chatService ChatMentor
	logger      arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService ChatMentor, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ChatHandler handles POST /api/chat requests
func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode chat request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Message == "" {
		WriteError(w, http.StatusBadRequest, "Message field is required")
		return
	}
	if req.Mode == "" {
		req.Mode = models.ChatModeEasy
	}

	h.logger.Info().
		Str("mode", string(req.Mode)).
		Int("message_length", len(req.Message)).
		Int("history_length", len(req.History)).
		Msg("Processing chat request")

	reply, err := h.chatService.Reply(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate chat reply")
		WriteError(w, http.StatusBadGateway, "Failed to generate reply")
		return
	}

	WriteJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}
