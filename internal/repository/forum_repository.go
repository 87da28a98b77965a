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

var postColumns = []string{"id", "discussion_id", "number", "content", "is_private", "hidden_at", "created_at"}

// ForumRepository reads the forum's discussion and post tables. All queries
// apply the actor's visibility rules; private and hidden content is only
// surfaced to admins when the rule allows it at all.
type ForumRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewForumRepository(db *pgxpool.Pool, logger *zap.Logger) *ForumRepository {
	return &ForumRepository{
		db:     db,
		logger: logger,
	}
}

// SearchDiscussions matches keywords against discussion titles and post
// bodies, most active discussions first.
func (r *ForumRepository) SearchDiscussions(ctx context.Context, keywords []string, actor models.Actor, limit int) ([]models.Discussion, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	match := squirrel.Or{}
	for _, keyword := range keywords {
		pattern := "%" + escapeLike(keyword) + "%"
		match = append(match,
			squirrel.ILike{"d.title": pattern},
			squirrel.Expr("EXISTS (SELECT 1 FROM posts p WHERE p.discussion_id = d.id AND p.content ILIKE ?)", pattern),
		)
	}

	query := squirrel.Select("d.id", "d.title", "d.comment_count", "d.is_private", "d.hidden_at", "d.created_at").
		From("discussions d").
		Where(match).
		Where(discussionVisibility(actor)).
		OrderBy("d.comment_count DESC", "d.created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var discussions []models.Discussion
	for rows.Next() {
		var d models.Discussion
		if err := rows.Scan(&d.ID, &d.Title, &d.CommentCount, &d.IsPrivate, &d.HiddenAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		discussions = append(discussions, d)
	}
	return discussions, rows.Err()
}

// FirstPost returns the discussion's opening post, or nil when it is missing
// or not visible to the actor.
func (r *ForumRepository) FirstPost(ctx context.Context, discussionID int64, actor models.Actor) (*models.Post, error) {
	query := squirrel.Select(postColumns...).
		From("posts").
		Where(squirrel.Eq{"discussion_id": discussionID, "number": 1}).
		Where(postVisibility(actor)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&post.ID, &post.DiscussionID, &post.Number, &post.Content,
		&post.IsPrivate, &post.HiddenAt, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// SearchReplies returns keyword-matching replies within a discussion, in
// posting order.
func (r *ForumRepository) SearchReplies(ctx context.Context, discussionID int64, keywords []string, actor models.Actor, limit int) ([]models.Post, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	match := squirrel.Or{}
	for _, keyword := range keywords {
		match = append(match, squirrel.ILike{"content": "%" + escapeLike(keyword) + "%"})
	}

	query := squirrel.Select(postColumns...).
		From("posts").
		Where(squirrel.Eq{"discussion_id": discussionID}).
		Where(squirrel.Gt{"number": 1}).
		Where(match).
		Where(postVisibility(actor)).
		OrderBy("number ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(
			&post.ID, &post.DiscussionID, &post.Number, &post.Content,
			&post.IsPrivate, &post.HiddenAt, &post.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// DiscussionVisible reports whether the discussion still exists and is
// visible to the actor. Used to revalidate cached search results.
func (r *ForumRepository) DiscussionVisible(ctx context.Context, discussionID int64, actor models.Actor) (bool, error) {
	query := squirrel.Select("1").
		From("discussions d").
		Where(squirrel.Eq{"d.id": discussionID}).
		Where(discussionVisibility(actor)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var one int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func discussionVisibility(actor models.Actor) squirrel.Sqlizer {
	if actor.Admin {
		return squirrel.Expr("d.hidden_at IS NULL")
	}
	return squirrel.And{
		squirrel.Expr("d.hidden_at IS NULL"),
		squirrel.Eq{"d.is_private": false},
	}
}

func postVisibility(actor models.Actor) squirrel.Sqlizer {
	if actor.Admin {
		return squirrel.Expr("hidden_at IS NULL")
	}
	return squirrel.And{
		squirrel.Expr("hidden_at IS NULL"),
		squirrel.Eq{"is_private": false},
	}
}
