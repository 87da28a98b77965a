package service

import (
	"strings"
	"testing"
)

func TestScoreRelevanceEmptyKeywords(t *testing.T) {
	if score := ScoreRelevance("some text", nil); score != 0 {
		t.Errorf("Expected 0 for empty keyword set, got %f", score)
	}
}

func TestScoreRelevanceCountsOccurrences(t *testing.T) {
	// Pad the text out of both the short-text penalty and the lead window.
	padding := strings.Repeat("x ", 60)
	text := padding + "firmware and more firmware"

	score := ScoreRelevance(text, []string{"firmware"})
	if score != 2 {
		t.Errorf("Expected 2 (two occurrences, no lead bonus), got %f", score)
	}
}

func TestScoreRelevanceLeadBonus(t *testing.T) {
	padding := strings.Repeat("x", 60)
	withLead := "firmware " + padding
	withoutLead := strings.Repeat("x", 120) + " firmware"

	leadScore := ScoreRelevance(withLead, []string{"firmware"})
	plainScore := ScoreRelevance(withoutLead, []string{"firmware"})

	if leadScore != 3 {
		t.Errorf("Expected 3 (one occurrence + lead bonus), got %f", leadScore)
	}
	if plainScore != 1 {
		t.Errorf("Expected 1 (occurrence outside the lead window), got %f", plainScore)
	}
}

func TestScoreRelevanceShortTextPenalty(t *testing.T) {
	// Under 50 characters: (1 + 2) * 0.5.
	score := ScoreRelevance("firmware", []string{"firmware"})
	if score != 1.5 {
		t.Errorf("Expected 1.5 for short text, got %f", score)
	}
}

func TestScoreRelevanceVerboseTextPenalty(t *testing.T) {
	text := "firmware " + strings.Repeat("x", 5100)

	// (1 + 2) * 0.7.
	score := ScoreRelevance(text, []string{"firmware"})
	if score < 2.09 || score > 2.11 {
		t.Errorf("Expected ~2.1 for verbose text, got %f", score)
	}
}

func TestScoreRelevanceNoMatch(t *testing.T) {
	padding := strings.Repeat("x ", 60)
	if score := ScoreRelevance(padding, []string{"firmware"}); score != 0 {
		t.Errorf("Expected 0 when no keyword matches, got %f", score)
	}
}
