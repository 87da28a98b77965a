package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"

	"go.uber.org/zap"
)

const (
	minQueryLength     = 2
	syntheticTitleRune = 30
	fallbackEntryTitle = "Knowledge Base Entry"
)

// KnowledgeStore is the read slice of the knowledge-base store used by search.
type KnowledgeStore interface {
	SearchEntries(ctx context.Context, keywords []string, rawQuery string, limit int) ([]*models.KnowledgeEntry, error)
}

// KnowledgeSearchService retrieves curated knowledge-base entries matching a
// chat query. Scores are on a [0,1] scale, unlike the forum scorer.
type KnowledgeSearchService struct {
	store  KnowledgeStore
	logger *zap.Logger
}

func NewKnowledgeSearchService(store KnowledgeStore, logger *zap.Logger) *KnowledgeSearchService {
	return &KnowledgeSearchService{
		store:  store,
		logger: logger,
	}
}

// Search returns scored knowledge-base matches for the query. Failures
// degrade to an empty result set.
func (s *KnowledgeSearchService) Search(ctx context.Context, query string, limit int) []models.SearchResult {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return nil
	}

	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return nil
	}

	entries, err := s.store.SearchEntries(ctx, keywords, query, limit)
	if err != nil {
		s.logger.Error("Knowledge base search failed", zap.Error(err))
		return nil
	}

	results := make([]models.SearchResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, models.SearchResult{
			Title:     entryTitle(entry),
			Content:   entry.Answer,
			Source:    models.SourceKnowledgeBase,
			Relevance: scoreEntry(query, keywords, entry),
		})
	}
	return results
}

// entryTitle returns the entry's question, or a synthetic title for untitled
// content entries: the lead of the answer, prefixed by the first declared
// keyword when one exists.
func entryTitle(entry *models.KnowledgeEntry) string {
	title := entry.Question
	if entry.Type == models.KnowledgeTypeContent && title == "" {
		runes := []rune(entry.Answer)
		if len(runes) > syntheticTitleRune {
			title = string(runes[:syntheticTitleRune]) + "..."
		} else {
			title = entry.Answer
		}
		if first := firstDeclaredKeyword(entry.Keywords); first != "" {
			title = first + ": " + title
		}
	}
	if title == "" {
		title = fallbackEntryTitle
	}
	return title
}

func firstDeclaredKeyword(declared string) string {
	for _, kw := range strings.Split(declared, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			return kw
		}
	}
	return ""
}

// scoreEntry blends title, content and declared-keyword matches into a [0,1]
// relevance score. Full-substring matches outweigh keyword-overlap fractions,
// and entry-type boosts favour curated QA pairs.
func scoreEntry(query string, queryKeywords []string, entry *models.KnowledgeEntry) float64 {
	queryLower := strings.ToLower(query)
	var score float64

	// Title match.
	if entry.Question != "" {
		titleLower := strings.ToLower(entry.Question)
		if strings.Contains(titleLower, queryLower) {
			score += 0.6
		} else {
			score += 0.4 * overlapFraction(titleLower, queryKeywords)
		}
	}

	// Content match.
	contentLower := strings.ToLower(entry.Answer)
	if strings.Contains(contentLower, queryLower) {
		score += 0.3
	} else {
		score += 0.2 * overlapFraction(contentLower, queryKeywords)
	}

	// Declared-keyword match.
	declared := declaredKeywords(entry.Keywords)
	if len(declared) > 0 {
		for _, kw := range declared {
			if strings.Contains(queryLower, kw) {
				score += 0.3
				break
			}
		}

		matched := 0
		for _, qk := range queryKeywords {
			qkLower := strings.ToLower(qk)
			for _, kw := range declared {
				if kw == qkLower || strings.Contains(kw, qkLower) || strings.Contains(qkLower, kw) {
					matched++
					break
				}
			}
		}
		if len(queryKeywords) > 0 {
			score += 0.2 * float64(matched) / float64(len(queryKeywords))
		}
	}

	// Type boosts.
	switch {
	case entry.Type == models.KnowledgeTypeQA && entry.Question != "":
		score *= 1.2
	case entry.Type == models.KnowledgeTypeContent:
		for _, kw := range declared {
			if strings.Contains(queryLower, kw) {
				score *= 1.3
				break
			}
		}
	}

	return min(1.0, max(0.0, score))
}

func overlapFraction(haystack string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func declaredKeywords(raw string) []string {
	var keywords []string
	for _, kw := range strings.Split(strings.ToLower(raw), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
