package models

import "time"

type KnowledgeType string

const (
	KnowledgeTypeQA      KnowledgeType = "qa"      // question/answer pair
	KnowledgeTypeContent KnowledgeType = "content" // free-form body without a title
)

type KnowledgeEntry struct {
	ID         int64         `db:"id"`
	Type       KnowledgeType `db:"type"`
	Question   string        `db:"question"` // optional title; content entries may leave it empty
	Answer     string        `db:"answer"`
	Keywords   string        `db:"keywords"` // comma-separated, operator-declared
	CategoryID *int64        `db:"category_id"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

type Category struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	ParentID    *int64    `db:"parent_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
