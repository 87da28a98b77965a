package service

import (
	"context"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"

	"go.uber.org/zap"
)

// UsageStore persists per-user daily counters. Increment must be a single
// atomic upsert keyed by (user_id, date); two concurrent requests from the
// same user must never lose an update.
type UsageStore interface {
	TodayCount(ctx context.Context, userID int64) (int, error)
	Increment(ctx context.Context, userID int64) (int, error)
	Stats(ctx context.Context, period string) (*models.UsageStats, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// QuotaDecision is the outcome of one checkAndConsume call.
type QuotaDecision struct {
	Allowed bool
	Count   int
}

// UsageLedger enforces the per-user daily request quota. Accounting is
// best-effort: a broken ledger store degrades to "allow but log" rather than
// blocking the chat feature.
type UsageLedger struct {
	store  UsageStore
	logger *zap.Logger
}

func NewUsageLedger(store UsageStore, logger *zap.Logger) *UsageLedger {
	return &UsageLedger{
		store:  store,
		logger: logger,
	}
}

// CheckAndConsume reads today's count, denies non-privileged users at the
// limit without mutating state, and otherwise consumes one unit via the
// store's atomic upsert. Privileged users bypass the limit but are still
// counted for observability.
func (l *UsageLedger) CheckAndConsume(ctx context.Context, userID int64, dailyLimit int, privileged bool) QuotaDecision {
	// A configured limit of zero or less would make "never record" ambiguous
	// with "unlimited"; coerce to one instead.
	if dailyLimit < 1 {
		dailyLimit = 1
	}

	count, err := l.store.TodayCount(ctx, userID)
	if err != nil {
		l.logger.Error("Usage count lookup failed, allowing request",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return QuotaDecision{Allowed: true}
	}

	if !privileged && count >= dailyLimit {
		return QuotaDecision{Allowed: false, Count: count}
	}

	newCount, err := l.store.Increment(ctx, userID)
	if err != nil {
		l.logger.Error("Usage increment failed, allowing request",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return QuotaDecision{Allowed: true, Count: count}
	}

	return QuotaDecision{Allowed: true, Count: newCount}
}

// Stats aggregates ledger rows for the admin stats endpoint.
func (l *UsageLedger) Stats(ctx context.Context, period string) (*models.UsageStats, error) {
	return l.store.Stats(ctx, period)
}

// Cleanup removes ledger rows older than the retention window.
func (l *UsageLedger) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	deleted, err := l.store.DeleteOlderThan(ctx, retentionDays)
	if err != nil {
		return 0, err
	}
	l.logger.Info("Usage records cleaned up",
		zap.Int("retention_days", retentionDays),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
