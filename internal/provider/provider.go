package provider

import (
	"context"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
)

// Provider is one AI completion backend. Implementations normalize their
// vendor's wire format; callers never see it.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	TestConnection(ctx context.Context) bool
	SupportedModels(ctx context.Context) ([]string, error)
}

// CompletionRequest carries everything a backend needs for one completion.
type CompletionRequest struct {
	SystemPrompt string
	Message      string
	History      []models.ConversationTurn
}

// CompletionResponse is the normalized backend output.
type CompletionResponse struct {
	Content    string
	TokensUsed int
}
