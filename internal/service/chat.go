package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ChatStatus discriminates the chat outcome. The string values are the wire
// ids the forum widget already understands.
type ChatStatus string

const (
	StatusInvalidInput  ChatStatus = "0"
	StatusGreeting      ChatStatus = "1"
	StatusOK            ChatStatus = "2"
	StatusQuotaExceeded ChatStatus = "429"
	StatusInternalError ChatStatus = "500"
)

// ChatReply is the orchestrator's answer to one inbound message.
type ChatReply struct {
	Status     ChatStatus
	Response   string
	References []models.Reference
}

// historyWindow bounds how much caller-supplied history reaches the provider.
const historyWindow = 4

// greetingReplies is the canned fast-path: these exact phrases skip
// retrieval and the provider call entirely, but still consume quota.
var greetingReplies = map[string]string{
	"hello": "Hello! How can I assist you today with your car navigation or Android head unit questions?",
	"hi":    "Hi there! How can I help you with your car navigation system or Android head unit today?",
	"hey":   "Hey! What questions do you have about car navigation or Android head units?",
	"你好":    "你好！我能帮您解答关于车载导航或安卓主机的问题吗？",
	"嗨":     "嗨！有什么关于车载导航或安卓主机的问题需要帮助吗？",
	"您好":    "您好！请问有什么关于车载导航系统或安卓主机的问题需要我帮忙解答吗？",
}

// ForumSearcher retrieves forum context for a query.
type ForumSearcher interface {
	Search(ctx context.Context, query string, actor models.Actor) []models.SearchResult
}

// KnowledgeSearcher retrieves knowledge-base context for a query.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, limit int) []models.SearchResult
}

// Completer dispatches a prompt to the configured AI provider.
type Completer interface {
	Complete(ctx context.Context, message string, history []models.ConversationTurn, results []models.SearchResult) (models.CompletionResult, error)
}

// QuotaKeeper enforces the daily usage quota.
type QuotaKeeper interface {
	CheckAndConsume(ctx context.Context, userID int64, dailyLimit int, privileged bool) QuotaDecision
}

// ChatService runs the request pipeline: validate, quota, greeting shortcut,
// retrieve, fuse, complete.
type ChatService struct {
	quota      QuotaKeeper
	forum      ForumSearcher
	kb         KnowledgeSearcher
	gateway    Completer
	dailyLimit int
	search     config.SearchConfig
	logger     *zap.Logger
}

func NewChatService(
	quota QuotaKeeper,
	forum ForumSearcher,
	kb KnowledgeSearcher,
	gateway Completer,
	aiCfg *config.AIConfig,
	searchCfg *config.SearchConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		quota:      quota,
		forum:      forum,
		kb:         kb,
		gateway:    gateway,
		dailyLimit: aiCfg.DailyLimit,
		search:     *searchCfg,
		logger:     logger,
	}
}

// HandleMessage processes one chat turn. It never returns an error: every
// failure is folded into a ChatReply the widget can render.
func (s *ChatService) HandleMessage(ctx context.Context, actor models.Actor, message string, history []models.ConversationTurn) ChatReply {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		// Invalid input does not consume quota.
		return ChatReply{
			Status:   StatusInvalidInput,
			Response: "Please provide a non-empty message.",
		}
	}

	limit := s.dailyLimit
	if limit < 1 {
		limit = 1
	}
	decision := s.quota.CheckAndConsume(ctx, actor.ID, limit, actor.Admin)
	if !decision.Allowed {
		return ChatReply{
			Status:   StatusQuotaExceeded,
			Response: fmt.Sprintf("You have reached your daily usage limit (%d requests). Please try again tomorrow.", limit),
		}
	}

	if reply, ok := greetingReply(trimmed); ok {
		return ChatReply{
			Status:   StatusGreeting,
			Response: reply,
		}
	}

	fused := s.retrieve(ctx, trimmed, actor)

	result, err := s.gateway.Complete(ctx, trimmed, tailWindow(history), fused)
	if err != nil {
		s.logger.Error("Provider completion failed",
			zap.Int64("user_id", actor.ID),
			zap.Error(err),
		)
		return ChatReply{
			Status:   StatusInternalError,
			Response: "Sorry, an error occurred while processing your request. Please try again later.",
		}
	}

	return ChatReply{
		Status:     StatusOK,
		Response:   result.Content,
		References: result.References,
	}
}

// retrieve runs both search backends in parallel. Each backend degrades to
// an empty set on its own failures, so the fan-out itself cannot fail.
func (s *ChatService) retrieve(ctx context.Context, query string, actor models.Actor) []models.SearchResult {
	var forumResults, kbResults []models.SearchResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		forumResults = s.forum.Search(gctx, query, actor)
		return nil
	})
	if s.search.KBEnabled {
		g.Go(func() error {
			kbResults = s.kb.Search(gctx, query, s.search.Limit)
			return nil
		})
	}
	_ = g.Wait()

	return MergeResults(forumResults, kbResults, s.search.KBSearchWeight, s.search.MinRelevance)
}

func greetingReply(trimmed string) (string, bool) {
	lower := strings.ToLower(trimmed)
	lower = strings.TrimSuffix(lower, "?")
	lower = strings.TrimSuffix(lower, "？")
	reply, ok := greetingReplies[lower]
	return reply, ok
}

func tailWindow(history []models.ConversationTurn) []models.ConversationTurn {
	if len(history) > historyWindow {
		return history[len(history)-historyWindow:]
	}
	return history
}
