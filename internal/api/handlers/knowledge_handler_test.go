package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
	"github.com/LiuTengYing/AI-Support-Widget/internal/service"
)

type fakeKnowledgeRepo struct {
	entries map[int64]*models.KnowledgeEntry
	updated *models.KnowledgeEntry
}

func (r *fakeKnowledgeRepo) List(ctx context.Context, categoryID *int64, limit, offset int) ([]*models.KnowledgeEntry, int64, error) {
	return nil, 0, nil
}

func (r *fakeKnowledgeRepo) GetByID(ctx context.Context, id int64) (*models.KnowledgeEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, service.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeKnowledgeRepo) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	return nil
}

func (r *fakeKnowledgeRepo) Update(ctx context.Context, entry *models.KnowledgeEntry) error {
	r.updated = entry
	return nil
}

func (r *fakeKnowledgeRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type fakeCategoryRepo struct{}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	return nil, nil
}

func newKnowledgeTestApp(repo *fakeKnowledgeRepo) *fiber.App {
	svc := service.NewKnowledgeService(repo, &fakeCategoryRepo{}, zap.NewNop())
	h := NewKnowledgeHandler(svc, zap.NewNop())

	app := fiber.New()
	app.Put("/kb/:id", h.Update)
	return app
}

func TestUpdateEntryKeepsOmittedFields(t *testing.T) {
	categoryID := int64(3)
	repo := &fakeKnowledgeRepo{
		entries: map[int64]*models.KnowledgeEntry{
			7: {
				ID:         7,
				Type:       models.KnowledgeTypeQA,
				Question:   "How do I pair Bluetooth?",
				Answer:     "Open settings and select the head unit.",
				Keywords:   "bluetooth,pairing",
				CategoryID: &categoryID,
			},
		},
	}
	app := newKnowledgeTestApp(repo)

	req := httptest.NewRequest("PUT", "/kb/7", strings.NewReader(`{"answer":"Enable Bluetooth in settings first."}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	got := repo.updated
	if got == nil {
		t.Fatal("Expected the entry to be persisted")
	}
	if got.Answer != "Enable Bluetooth in settings first." {
		t.Errorf("Expected the answer to be replaced, got %q", got.Answer)
	}
	if got.Question != "How do I pair Bluetooth?" {
		t.Errorf("Expected the omitted question to survive, got %q", got.Question)
	}
	if got.Keywords != "bluetooth,pairing" {
		t.Errorf("Expected the omitted keywords to survive, got %q", got.Keywords)
	}
	if got.Type != models.KnowledgeTypeQA {
		t.Errorf("Expected the omitted type to survive, got %q", got.Type)
	}
	if got.CategoryID == nil || *got.CategoryID != categoryID {
		t.Errorf("Expected the omitted category to survive, got %v", got.CategoryID)
	}
}

func TestUpdateEntryUnknownIDReturns404(t *testing.T) {
	repo := &fakeKnowledgeRepo{entries: map[int64]*models.KnowledgeEntry{}}
	app := newKnowledgeTestApp(repo)

	req := httptest.NewRequest("PUT", "/kb/99", strings.NewReader(`{"answer":"anything"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for an unknown entry, got %d", resp.StatusCode)
	}
}
