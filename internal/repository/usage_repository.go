package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
)

const topUsersLimit = 10

// UsageRepository persists the per-user daily request ledger.
type UsageRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUsageRepository(db *pgxpool.Pool, logger *zap.Logger) *UsageRepository {
	return &UsageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UsageRepository) TodayCount(ctx context.Context, userID int64) (int, error) {
	query := squirrel.Select("count").
		From("ai_usage").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Expr("date = CURRENT_DATE")).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

// Increment bumps today's counter for the user, creating the row on first
// use. The upsert keeps concurrent requests from losing updates.
func (r *UsageRepository) Increment(ctx context.Context, userID int64) (int, error) {
	query := squirrel.Insert("ai_usage").
		Columns("user_id", "date", "count").
		Values(userID, squirrel.Expr("CURRENT_DATE"), 1).
		Suffix("ON CONFLICT (user_id, date) DO UPDATE SET count = ai_usage.count + 1, updated_at = NOW() RETURNING count").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UsageRepository) Stats(ctx context.Context, period string) (*models.UsageStats, error) {
	stats := &models.UsageStats{Period: period}

	totals := squirrel.Select(
		"COALESCE(SUM(count), 0)",
		"COALESCE(SUM(count) FILTER (WHERE date = CURRENT_DATE), 0)",
		"COALESCE(SUM(count) FILTER (WHERE date = CURRENT_DATE - 1), 0)",
		"COUNT(DISTINCT user_id)",
	).From("ai_usage").PlaceholderFormat(squirrel.Dollar)
	totals = applyPeriodFilter(totals, period)

	sql, args, err := totals.ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(
		&stats.TotalUsage, &stats.TodayUsage, &stats.YesterdayUsage, &stats.ActiveUsers,
	); err != nil {
		return nil, err
	}

	top := squirrel.Select("user_id", "SUM(count) AS total").
		From("ai_usage").
		GroupBy("user_id").
		OrderBy("total DESC").
		Limit(topUsersLimit).
		PlaceholderFormat(squirrel.Dollar)
	top = applyPeriodFilter(top, period)

	sql, args, err = top.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user models.UserUsage
		if err := rows.Scan(&user.UserID, &user.Count); err != nil {
			return nil, err
		}
		stats.TopUsers = append(stats.TopUsers, user)
	}
	return stats, rows.Err()
}

func applyPeriodFilter(query squirrel.SelectBuilder, period string) squirrel.SelectBuilder {
	switch period {
	case "today":
		return query.Where(squirrel.Expr("date = CURRENT_DATE"))
	case "week":
		return query.Where(squirrel.Expr("date >= CURRENT_DATE - 6"))
	case "month":
		return query.Where(squirrel.Expr("date >= CURRENT_DATE - 29"))
	default:
		return query
	}
}

func (r *UsageRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	query := squirrel.Delete("ai_usage").
		Where(squirrel.Expr("date < CURRENT_DATE - make_interval(days => ?)", days)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
