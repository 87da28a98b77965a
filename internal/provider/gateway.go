package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
	"github.com/LiuTengYing/AI-Support-Widget/internal/service"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"
)

const (
	degradedReplyCJK = "对不起，AI服务暂时无法连接，请稍后再试。可能是网络连接问题或者服务器繁忙。\n\n如果您有具体问题，请尝试在论坛中发帖或联系技术团队。"
	degradedReplyEN  = "Sorry, the AI service is temporarily unavailable. Please try again later. This might be due to network connectivity issues or server load.\n\nIf you have a specific question, please consider posting in the forum or contacting the technical team."
)

// Gateway fronts a single configured provider with retry and timeout
// degradation. It is the only completion path the chat service sees.
type Gateway struct {
	provider Provider
	cfg      *config.AIConfig
	logger   *zap.Logger
	sleep    func(time.Duration)
}

func NewGateway(cfg *config.AIConfig, logger *zap.Logger) *Gateway {
	return &Gateway{
		provider: selectProvider(cfg, logger),
		cfg:      cfg,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// selectProvider resolves the configured provider name, falling back to
// OpenAI when the name is unknown or DeepSeek is selected without a key.
func selectProvider(cfg *config.AIConfig, logger *zap.Logger) Provider {
	switch cfg.Provider {
	case ProviderDeepSeek:
		if cfg.APIKey == "" {
			logger.Warn("deepseek selected without an API key, falling back to openai")
			return NewOpenAI(cfg, logger)
		}
		return NewDeepSeek(cfg, logger)
	case ProviderOpenAI:
		return NewOpenAI(cfg, logger)
	default:
		if cfg.Provider != "" {
			logger.Warn("unknown AI provider, falling back to openai", zap.String("provider", cfg.Provider))
		}
		return NewOpenAI(cfg, logger)
	}
}

func (g *Gateway) ProviderName() string  { return g.provider.Name() }
func (g *Gateway) ProviderModel() string { return g.provider.Model() }

func (g *Gateway) TestConnection(ctx context.Context) bool {
	return g.provider.TestConnection(ctx)
}

// Complete sends the message to the provider with retry on transient
// failures. When every attempt times out it returns a degraded reply in
// the user's language rather than an error, so the caller can still
// answer the request.
func (g *Gateway) Complete(ctx context.Context, message string, history []models.ConversationTurn, results []models.SearchResult) (models.CompletionResult, error) {
	req := CompletionRequest{
		SystemPrompt: BuildSystemPrompt(results),
		Message:      message,
		History:      history,
	}

	attempts := g.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := g.provider.Complete(ctx, req)
		if err == nil {
			return models.CompletionResult{
				Content:    resp.Content,
				References: buildReferences(results),
				TokensUsed: resp.TokensUsed,
			}, nil
		}
		lastErr = err
		g.logger.Warn("completion attempt failed",
			zap.String("provider", g.provider.Name()),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if !isTransient(err) || attempt == attempts {
			break
		}
		g.sleep(g.cfg.RetryBaseDelay * time.Duration(1<<(attempt-1)))
	}

	if isTimeout(lastErr) {
		g.logger.Warn("all completion attempts timed out, returning degraded reply",
			zap.String("provider", g.provider.Name()))
		reply := degradedReplyEN
		if service.ContainsCJK(message) {
			reply = degradedReplyCJK
		}
		return models.CompletionResult{
			Content:    reply,
			References: buildReferences(results),
			Degraded:   true,
		}, nil
	}

	return models.CompletionResult{}, lastErr
}

func buildReferences(results []models.SearchResult) []models.Reference {
	if len(results) == 0 {
		return nil
	}
	refs := make([]models.Reference, 0, len(results))
	for _, r := range results {
		refs = append(refs, models.Reference{
			Title:  r.Title,
			URL:    r.URL,
			Source: r.Source,
		})
	}
	return refs
}

var _ service.Completer = (*Gateway)(nil)
