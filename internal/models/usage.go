package models

import "time"

// UsageRecord is one per-user-per-day request counter row.
type UsageRecord struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Date      time.Time `db:"date"` // day granularity
	Count     int       `db:"count"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// UsageStats aggregates ledger rows for the admin stats endpoint.
type UsageStats struct {
	Period         string      `json:"period"`
	TotalUsage     int64       `json:"total_usage"`
	TodayUsage     int64       `json:"today_usage"`
	YesterdayUsage int64       `json:"yesterday_usage"`
	ActiveUsers    int64       `json:"active_users"`
	TopUsers       []UserUsage `json:"top_users"`
}

type UserUsage struct {
	UserID int64 `json:"user_id"`
	Count  int64 `json:"count"`
}
