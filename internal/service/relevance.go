package service

import (
	"strings"
	"unicode/utf8"
)

const (
	leadWindow       = 100 // characters counted as the "title/lead" region
	shortTextLimit   = 50
	verboseTextLimit = 5000
)

// ScoreRelevance scores text against a keyword set: each occurrence counts
// one point, a first occurrence inside the lead window earns a +2 bonus, and
// a length multiplier dampens both too-sparse and too-verbose candidates.
// The scale is unbounded; callers fusing it with the knowledge-base scorer
// must normalize first.
func ScoreRelevance(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	var score float64

	for _, keyword := range keywords {
		kw := strings.ToLower(keyword)
		if kw == "" {
			continue
		}
		count := strings.Count(lower, kw)
		if count == 0 {
			continue
		}
		score += float64(count)

		idx := strings.Index(lower, kw)
		if utf8.RuneCountInString(lower[:idx]) < leadWindow {
			score += 2
		}
	}

	switch length := utf8.RuneCountInString(text); {
	case length < shortTextLimit:
		score *= 0.5
	case length > verboseTextLimit:
		score *= 0.7
	}

	return score
}
