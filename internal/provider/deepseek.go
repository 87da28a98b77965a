package provider

import (
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"

	"go.uber.org/zap"
)

const (
	ProviderDeepSeek = "deepseek"

	deepSeekBaseURL      = "https://api.deepseek.com/v1"
	deepSeekDefaultModel = "deepseek-chat"
)

// NewDeepSeek returns the DeepSeek backend. Its API is OpenAI-compatible.
func NewDeepSeek(cfg *config.AIConfig, logger *zap.Logger) Provider {
	return newChatClient(ProviderDeepSeek, deepSeekBaseURL, deepSeekDefaultModel, cfg, logger)
}
