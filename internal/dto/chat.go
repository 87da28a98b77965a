package dto

import "github.com/LiuTengYing/AI-Support-Widget/internal/models"

type ChatRequest struct {
	Message string                    `json:"message" validate:"required"`
	History []models.ConversationTurn `json:"history,omitempty"`
}

// ChatResponse is the widget-facing reply. ID carries the outcome code the
// widget switches on; "2" is a normal answer. References is always present
// on the wire, empty when the reply cites nothing.
type ChatResponse struct {
	ID         string             `json:"id"`
	Response   string             `json:"response"`
	References []models.Reference `json:"references"`
}

func NewChatResponse(id, response string, references []models.Reference) ChatResponse {
	if references == nil {
		references = []models.Reference{}
	}
	return ChatResponse{
		ID:         id,
		Response:   response,
		References: references,
	}
}
