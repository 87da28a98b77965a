package service

import (
	"context"
	"errors"
	"strings"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"

	"go.uber.org/zap"
)

var (
	ErrEntryNotFound = errors.New("knowledge base entry not found")
	ErrInvalidEntry  = errors.New("invalid knowledge base entry")
)

// KnowledgeRepo is the management slice of the knowledge-base store.
type KnowledgeRepo interface {
	List(ctx context.Context, categoryID *int64, limit, offset int) ([]*models.KnowledgeEntry, int64, error)
	GetByID(ctx context.Context, id int64) (*models.KnowledgeEntry, error)
	Create(ctx context.Context, entry *models.KnowledgeEntry) error
	Update(ctx context.Context, entry *models.KnowledgeEntry) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepo lists the category tree.
type CategoryRepo interface {
	List(ctx context.Context) ([]*models.Category, error)
}

// KnowledgeService is the operator-facing CRUD surface over the same store
// the retriever reads.
type KnowledgeService struct {
	entries    KnowledgeRepo
	categories CategoryRepo
	logger     *zap.Logger
}

func NewKnowledgeService(entries KnowledgeRepo, categories CategoryRepo, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{
		entries:    entries,
		categories: categories,
		logger:     logger,
	}
}

func (s *KnowledgeService) List(ctx context.Context, categoryID *int64, limit, offset int) ([]*models.KnowledgeEntry, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.entries.List(ctx, categoryID, limit, offset)
}

func (s *KnowledgeService) Get(ctx context.Context, id int64) (*models.KnowledgeEntry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *KnowledgeService) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return err
	}
	s.logger.Info("Knowledge base entry created",
		zap.Int64("id", entry.ID),
		zap.String("type", string(entry.Type)),
	)
	return nil
}

func (s *KnowledgeService) Update(ctx context.Context, entry *models.KnowledgeEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}
	return s.entries.Update(ctx, entry)
}

func (s *KnowledgeService) Delete(ctx context.Context, id int64) error {
	if err := s.entries.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Knowledge base entry deleted", zap.Int64("id", id))
	return nil
}

func (s *KnowledgeService) Categories(ctx context.Context) ([]*models.Category, error) {
	return s.categories.List(ctx)
}

func validateEntry(entry *models.KnowledgeEntry) error {
	if strings.TrimSpace(entry.Answer) == "" {
		return ErrInvalidEntry
	}
	switch entry.Type {
	case models.KnowledgeTypeQA:
		if strings.TrimSpace(entry.Question) == "" {
			return ErrInvalidEntry
		}
	case models.KnowledgeTypeContent:
	default:
		return ErrInvalidEntry
	}
	return nil
}
