package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
	"github.com/LiuTengYing/AI-Support-Widget/internal/service"
)

var kbColumns = []string{"id", "type", "question", "answer", "keywords", "category_id", "created_at", "updated_at"}

// KnowledgeRepository stores curated knowledge-base entries. It backs both
// the retrieval path and the admin CRUD surface.
type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

// SearchEntries returns entries whose question, answer, or declared keywords
// match any extracted keyword or the raw query itself.
func (r *KnowledgeRepository) SearchEntries(ctx context.Context, keywords []string, rawQuery string, limit int) ([]*models.KnowledgeEntry, error) {
	terms := append([]string{}, keywords...)
	if rawQuery != "" {
		terms = append(terms, rawQuery)
	}
	if len(terms) == 0 {
		return nil, nil
	}

	match := squirrel.Or{}
	for _, term := range terms {
		pattern := "%" + escapeLike(term) + "%"
		match = append(match,
			squirrel.ILike{"question": pattern},
			squirrel.ILike{"answer": pattern},
			squirrel.ILike{"keywords": pattern},
		)
	}

	query := squirrel.Select(kbColumns...).
		From("kb_entries").
		Where(match).
		OrderBy("updated_at DESC").
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

	return scanEntries(rows)
}

func (r *KnowledgeRepository) List(ctx context.Context, categoryID *int64, limit, offset int) ([]*models.KnowledgeEntry, int64, error) {
	query := squirrel.Select(kbColumns...).
		From("kb_entries").
		OrderBy("updated_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)
	countQuery := squirrel.Select("COUNT(*)").
		From("kb_entries").
		PlaceholderFormat(squirrel.Dollar)

	if categoryID != nil {
		query = query.Where(squirrel.Eq{"category_id": *categoryID})
		countQuery = countQuery.Where(squirrel.Eq{"category_id": *categoryID})
	}

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql, args, err = query.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, id int64) (*models.KnowledgeEntry, error) {
	query := squirrel.Select(kbColumns...).
		From("kb_entries").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var entry models.KnowledgeEntry
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&entry.ID, &entry.Type, &entry.Question, &entry.Answer,
		&entry.Keywords, &entry.CategoryID, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *KnowledgeRepository) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	query := squirrel.Insert("kb_entries").
		Columns("type", "question", "answer", "keywords", "category_id").
		Values(entry.Type, entry.Question, entry.Answer, entry.Keywords, entry.CategoryID).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *KnowledgeRepository) Update(ctx context.Context, entry *models.KnowledgeEntry) error {
	query := squirrel.Update("kb_entries").
		Set("type", entry.Type).
		Set("question", entry.Question).
		Set("answer", entry.Answer).
		Set("keywords", entry.Keywords).
		Set("category_id", entry.CategoryID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entry.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrEntryNotFound
	}
	return nil
}

func (r *KnowledgeRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("kb_entries").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrEntryNotFound
	}
	return nil
}

func scanEntries(rows pgx.Rows) ([]*models.KnowledgeEntry, error) {
	var entries []*models.KnowledgeEntry
	for rows.Next() {
		var entry models.KnowledgeEntry
		if err := rows.Scan(
			&entry.ID, &entry.Type, &entry.Question, &entry.Answer,
			&entry.Keywords, &entry.CategoryID, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// escapeLike neutralizes LIKE metacharacters in user-supplied terms.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `%`, `\%`)
	term = strings.ReplaceAll(term, `_`, `\_`)
	return term
}
