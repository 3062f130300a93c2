package models

// ChatMode selects the mentor's register: beginner-friendly or analyst-grade.
type ChatMode string

const (
	ChatModeEasy ChatMode = "easy"
	ChatModePro  ChatMode = "pro"
)

// HistoryMessage is one prior turn of the mentor conversation.
type HistoryMessage struct {
	Role string `json:"role" validate:"oneof=user ai"`
	Text string `json:"text"`
}

// ChatRequest is the payload for POST /api/chat.
type ChatRequest struct {
	Mode    ChatMode         `json:"mode" validate:"oneof=easy pro"`
	Message string           `json:"message" validate:"required"`
	History []HistoryMessage `json:"history"`
}

// ChatResponse is the mentor's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}
