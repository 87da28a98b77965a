package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
	"github.com/LiuTengYing/AI-Support-Widget/pkg/config"
)

type fakeForumStore struct {
	discussions     []models.Discussion
	firstPosts      map[int64]*models.Post
	replies         map[int64][]models.Post
	visible         map[int64]bool
	searchCalls     int
	visibilityCalls int
}

func (f *fakeForumStore) SearchDiscussions(ctx context.Context, keywords []string, actor models.Actor, limit int) ([]models.Discussion, error) {
	f.searchCalls++
	if len(f.discussions) > limit {
		return f.discussions[:limit], nil
	}
	return f.discussions, nil
}

func (f *fakeForumStore) FirstPost(ctx context.Context, discussionID int64, actor models.Actor) (*models.Post, error) {
	return f.firstPosts[discussionID], nil
}

func (f *fakeForumStore) SearchReplies(ctx context.Context, discussionID int64, keywords []string, actor models.Actor, limit int) ([]models.Post, error) {
	replies := f.replies[discussionID]
	if len(replies) > limit {
		return replies[:limit], nil
	}
	return replies, nil
}

func (f *fakeForumStore) DiscussionVisible(ctx context.Context, discussionID int64, actor models.Actor) (bool, error) {
	f.visibilityCalls++
	visible, ok := f.visible[discussionID]
	return ok && visible, nil
}

func testSearchConfig() *config.SearchConfig {
	return &config.SearchConfig{
		Limit:        5,
		MinRelevance: 0.5,
		CacheTTL:     5 * time.Minute,
	}
}

func TestForumSearchEmptyQuery(t *testing.T) {
	store := &fakeForumStore{}
	svc := NewForumSearchService(store, testSearchConfig(), "https://forum.example.com", zap.NewNop())

	if results := svc.Search(context.Background(), "...", models.Actor{ID: 1}); results != nil {
		t.Errorf("Expected nil for a query with no keywords, got %v", results)
	}
	if store.searchCalls != 0 {
		t.Errorf("Store should not be queried without keywords, got %d calls", store.searchCalls)
	}
}

func TestForumSearchBuildsResults(t *testing.T) {
	content := "The firmware update failed because the USB drive was not FAT32. " + strings.Repeat("detail ", 10)
	store := &fakeForumStore{
		discussions: []models.Discussion{
			{ID: 7, Title: "Firmware update problem", CommentCount: 12},
		},
		firstPosts: map[int64]*models.Post{
			7: {ID: 70, DiscussionID: 7, Number: 1, Content: content},
		},
		replies: map[int64][]models.Post{
			7: {{ID: 71, DiscussionID: 7, Number: 3, Content: "Reformat to FAT32 and retry the firmware update. " + strings.Repeat("more firmware notes ", 5)}},
		},
	}
	svc := NewForumSearchService(store, testSearchConfig(), "https://forum.example.com/", zap.NewNop())

	results := svc.Search(context.Background(), "firmware update", models.Actor{ID: 1})
	if len(results) != 2 {
		t.Fatalf("Expected first post and one reply, got %d results", len(results))
	}

	for _, r := range results {
		if r.Source != models.SourceForum {
			t.Errorf("Expected forum source, got %s", r.Source)
		}
	}

	var sawDiscussionURL, sawPostURL bool
	for _, r := range results {
		switch r.URL {
		case "https://forum.example.com/d/7":
			sawDiscussionURL = true
		case "https://forum.example.com/d/7/3":
			sawPostURL = true
		}
	}
	if !sawDiscussionURL || !sawPostURL {
		t.Errorf("Expected canonical discussion and post URLs, got %+v", results)
	}

	if results[0].Relevance < results[1].Relevance {
		t.Error("Expected results ordered by descending relevance")
	}
}

func TestForumSearchSkipsShortReplies(t *testing.T) {
	store := &fakeForumStore{
		discussions: []models.Discussion{{ID: 1, Title: "firmware"}},
		replies: map[int64][]models.Post{
			1: {{ID: 2, DiscussionID: 1, Number: 2, Content: "+1"}},
		},
	}
	svc := NewForumSearchService(store, testSearchConfig(), "https://forum.example.com", zap.NewNop())

	results := svc.Search(context.Background(), "firmware update", models.Actor{ID: 1})
	for _, r := range results {
		if strings.Contains(r.Title, "Reply") {
			t.Errorf("Short reply should have been filtered, got %+v", r)
		}
	}
}

func TestForumSearchCacheHitRevalidates(t *testing.T) {
	store := &fakeForumStore{
		discussions: []models.Discussion{{ID: 9, Title: "Camera wiring for the backup camera"}},
		firstPosts: map[int64]*models.Post{
			9: {ID: 90, DiscussionID: 9, Number: 1, Content: "Connect the backup camera reverse wire to the lamp circuit. " + strings.Repeat("wiring ", 10)},
		},
		visible: map[int64]bool{9: true},
	}
	svc := NewForumSearchService(store, testSearchConfig(), "https://forum.example.com", zap.NewNop())
	actor := models.Actor{ID: 3}

	first := svc.Search(context.Background(), "backup camera wiring", actor)
	if len(first) == 0 {
		t.Fatal("Expected results on the first search")
	}
	if store.searchCalls != 1 {
		t.Fatalf("Expected one backend search, got %d", store.searchCalls)
	}

	// Second call hits the cache and revalidates instead of re-searching.
	second := svc.Search(context.Background(), "backup camera wiring", actor)
	if store.searchCalls != 1 {
		t.Errorf("Expected the cache to absorb the second search, got %d backend calls", store.searchCalls)
	}
	if store.visibilityCalls == 0 {
		t.Error("Expected cached results to be revalidated")
	}
	if len(second) != len(first) {
		t.Errorf("Expected identical results while visible, got %d then %d", len(first), len(second))
	}

	// Hide the discussion; the cached hit must be pruned.
	store.visible[9] = false
	third := svc.Search(context.Background(), "backup camera wiring", actor)
	if len(third) != 0 {
		t.Errorf("Expected hidden discussion pruned from cache, got %v", third)
	}
}

func TestForumSearchCacheIsolatedPerActor(t *testing.T) {
	store := &fakeForumStore{
		discussions: []models.Discussion{{ID: 5, Title: "Steering wheel controls protocol"}},
		firstPosts: map[int64]*models.Post{
			5: {ID: 50, DiscussionID: 5, Number: 1, Content: "Select your car brand protocol under settings for the steering wheel controls. " + strings.Repeat("swc ", 10)},
		},
	}
	svc := NewForumSearchService(store, testSearchConfig(), "https://forum.example.com", zap.NewNop())

	svc.Search(context.Background(), "steering wheel controls", models.Actor{ID: 1})
	svc.Search(context.Background(), "steering wheel controls", models.Actor{ID: 2})

	if store.searchCalls != 2 {
		t.Errorf("Expected separate cache entries per actor, got %d backend calls", store.searchCalls)
	}
}

func TestCleanContent(t *testing.T) {
	cleaned := CleanContent("<p>Hello   <b>world</b></p>\n\ttabs")
	if cleaned != "Hello world tabs" {
		t.Errorf("Expected markup stripped and whitespace collapsed, got %q", cleaned)
	}

	cleaned = CleanContent("price © 100 € + tax")
	if cleaned != "price 100 tax" {
		t.Errorf("Expected symbol runes stripped, got %q", cleaned)
	}
}
