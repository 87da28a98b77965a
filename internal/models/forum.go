package models

import "time"

// Discussion mirrors the forum's discussion table. This service only reads it.
type Discussion struct {
	ID           int64      `db:"id"`
	Title        string     `db:"title"`
	CommentCount int        `db:"comment_count"`
	IsPrivate    bool       `db:"is_private"`
	HiddenAt     *time.Time `db:"hidden_at"`
	CreatedAt    time.Time  `db:"created_at"`
}

// Post mirrors the forum's post table. Number 1 is the opening post.
type Post struct {
	ID           int64      `db:"id"`
	DiscussionID int64      `db:"discussion_id"`
	Number       int        `db:"number"`
	Content      string     `db:"content"`
	IsPrivate    bool       `db:"is_private"`
	HiddenAt     *time.Time `db:"hidden_at"`
	CreatedAt    time.Time  `db:"created_at"`
}

// Actor identifies the requesting forum user at the boundary of this service.
// The fronting forum has already authenticated them.
type Actor struct {
	ID    int64
	Admin bool
}
