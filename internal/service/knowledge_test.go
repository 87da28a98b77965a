package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
)

type fakeKnowledgeRepo struct {
	entries map[int64]*models.KnowledgeEntry
	nextID  int64
}

func newFakeKnowledgeRepo() *fakeKnowledgeRepo {
	return &fakeKnowledgeRepo{entries: make(map[int64]*models.KnowledgeEntry), nextID: 1}
}

func (f *fakeKnowledgeRepo) List(ctx context.Context, categoryID *int64, limit, offset int) ([]*models.KnowledgeEntry, int64, error) {
	var out []*models.KnowledgeEntry
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeKnowledgeRepo) GetByID(ctx context.Context, id int64) (*models.KnowledgeEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeKnowledgeRepo) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	entry.ID = f.nextID
	f.nextID++
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeKnowledgeRepo) Update(ctx context.Context, entry *models.KnowledgeEntry) error {
	if _, ok := f.entries[entry.ID]; !ok {
		return ErrEntryNotFound
	}
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeKnowledgeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.entries[id]; !ok {
		return ErrEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

type fakeCategoryRepo struct{}

func (fakeCategoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	return []*models.Category{{ID: 1, Name: "Installation"}}, nil
}

func TestKnowledgeServiceCreateValidation(t *testing.T) {
	svc := NewKnowledgeService(newFakeKnowledgeRepo(), fakeCategoryRepo{}, zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		name  string
		entry *models.KnowledgeEntry
	}{
		{"missing answer", &models.KnowledgeEntry{Type: models.KnowledgeTypeQA, Question: "q"}},
		{"qa without question", &models.KnowledgeEntry{Type: models.KnowledgeTypeQA, Answer: "a"}},
		{"unknown type", &models.KnowledgeEntry{Type: "faq", Answer: "a"}},
	}
	for _, tc := range cases {
		if err := svc.Create(ctx, tc.entry); err != ErrInvalidEntry {
			t.Errorf("%s: expected ErrInvalidEntry, got %v", tc.name, err)
		}
	}

	valid := &models.KnowledgeEntry{Type: models.KnowledgeTypeContent, Answer: "a body"}
	if err := svc.Create(ctx, valid); err != nil {
		t.Errorf("Expected content entry without question to validate, got %v", err)
	}
	if valid.ID == 0 {
		t.Error("Expected the created entry to receive an id")
	}
}

func TestKnowledgeServiceUpdateMissing(t *testing.T) {
	svc := NewKnowledgeService(newFakeKnowledgeRepo(), fakeCategoryRepo{}, zap.NewNop())

	entry := &models.KnowledgeEntry{ID: 99, Type: models.KnowledgeTypeContent, Answer: "a"}
	if err := svc.Update(context.Background(), entry); err != ErrEntryNotFound {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestKnowledgeServiceListClampsLimit(t *testing.T) {
	repo := newFakeKnowledgeRepo()
	svc := NewKnowledgeService(repo, fakeCategoryRepo{}, zap.NewNop())

	// Clamping happens before the repo call; just exercise the bounds.
	if _, _, err := svc.List(context.Background(), nil, -5, -1); err != nil {
		t.Errorf("List with out-of-range paging failed: %v", err)
	}
	if _, _, err := svc.List(context.Background(), nil, 500, 0); err != nil {
		t.Errorf("List with oversized limit failed: %v", err)
	}
}
