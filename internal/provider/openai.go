package provider

import (
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"

	"go.uber.org/zap"
)

const (
	ProviderOpenAI = "openai"

	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-3.5-turbo"
)

// NewOpenAI returns the OpenAI backend. It is also the fallback when the
// configured provider is unusable.
func NewOpenAI(cfg *config.AIConfig, logger *zap.Logger) Provider {
	return newChatClient(ProviderOpenAI, openAIBaseURL, openAIDefaultModel, cfg, logger)
}
