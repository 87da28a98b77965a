package service

import (
	"sort"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
)

// MergeResults fuses forum and knowledge-base hits onto a common [0,1] scale,
// drops everything under minRelevance, and re-ranks descending. The forum
// scorer is unbounded, so forum scores are rescaled against their batch
// maximum before the two sets are comparable. Knowledge-base scores are
// multiplied by kbWeight (capped at 1.0) so operators can tilt fusion toward
// or away from curated content. Ties favour the knowledge base: curated
// content is presumed higher-precision than forum posts.
func MergeResults(forum, kb []models.SearchResult, kbWeight, minRelevance float64) []models.SearchResult {
	merged := make([]models.SearchResult, 0, len(forum)+len(kb))

	var maxForum float64
	for _, r := range forum {
		if r.Relevance > maxForum {
			maxForum = r.Relevance
		}
	}
	for _, r := range forum {
		if maxForum > 0 {
			r.Relevance /= maxForum
		}
		merged = append(merged, r)
	}

	if kbWeight <= 0 {
		kbWeight = 1.0
	}
	for _, r := range kb {
		r.Relevance *= kbWeight
		if r.Relevance > 1.0 {
			r.Relevance = 1.0
		}
		merged = append(merged, r)
	}

	filtered := merged[:0]
	for _, r := range merged {
		if r.Relevance >= minRelevance {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Relevance != filtered[j].Relevance {
			return filtered[i].Relevance > filtered[j].Relevance
		}
		return filtered[i].Source == models.SourceKnowledgeBase && filtered[j].Source == models.SourceForum
	})

	return filtered
}
