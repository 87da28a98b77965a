package service

import (
	"testing"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
)

func TestMergeResultsNormalizesForumScores(t *testing.T) {
	forum := []models.SearchResult{
		{Title: "best", Source: models.SourceForum, Relevance: 8},
		{Title: "half", Source: models.SourceForum, Relevance: 4},
	}

	merged := MergeResults(forum, nil, 1.0, 0)
	if len(merged) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(merged))
	}
	if merged[0].Relevance != 1.0 {
		t.Errorf("Expected batch max rescaled to 1.0, got %f", merged[0].Relevance)
	}
	if merged[1].Relevance != 0.5 {
		t.Errorf("Expected 0.5 after rescaling, got %f", merged[1].Relevance)
	}
}

func TestMergeResultsAppliesKBWeightAndCap(t *testing.T) {
	kb := []models.SearchResult{
		{Title: "entry", Source: models.SourceKnowledgeBase, Relevance: 0.9},
	}

	merged := MergeResults(nil, kb, 1.5, 0)
	if len(merged) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(merged))
	}
	if merged[0].Relevance != 1.0 {
		t.Errorf("Expected weighted score capped at 1.0, got %f", merged[0].Relevance)
	}
}

func TestMergeResultsFiltersBelowMinRelevance(t *testing.T) {
	forum := []models.SearchResult{
		{Title: "strong", Source: models.SourceForum, Relevance: 10},
		{Title: "weak", Source: models.SourceForum, Relevance: 1},
	}

	merged := MergeResults(forum, nil, 1.0, 0.5)
	if len(merged) != 1 {
		t.Fatalf("Expected the weak result to be dropped, got %d results", len(merged))
	}
	if merged[0].Title != "strong" {
		t.Errorf("Expected the strong result to survive, got %q", merged[0].Title)
	}
}

func TestMergeResultsTieFavorsKnowledgeBase(t *testing.T) {
	forum := []models.SearchResult{
		{Title: "forum", Source: models.SourceForum, Relevance: 5},
	}
	kb := []models.SearchResult{
		{Title: "kb", Source: models.SourceKnowledgeBase, Relevance: 1.0},
	}

	merged := MergeResults(forum, kb, 1.0, 0)
	if len(merged) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(merged))
	}
	if merged[0].Source != models.SourceKnowledgeBase {
		t.Errorf("Expected the knowledge base to win the tie, got %s first", merged[0].Source)
	}
}

func TestMergeResultsEmptyInputs(t *testing.T) {
	if merged := MergeResults(nil, nil, 1.0, 0.5); len(merged) != 0 {
		t.Errorf("Expected no results, got %d", len(merged))
	}
}
