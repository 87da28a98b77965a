package service

import (
	"strings"
	"unicode"
)

// Stop-words dropped on the Latin extraction path. CJK stop-words are not
// needed: the n-gram path never produces single characters.
var latinStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "by": {},
	"about": {}, "like": {}, "through": {}, "over": {}, "before": {}, "after": {},
	"between": {}, "since": {}, "of": {}, "from": {},
}

// ContainsCJK reports whether any rune in s is a Han character.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// ExtractKeywords produces an ordered, de-duplicated keyword set from free
// text. Latin text is tokenized on whitespace with stop-word filtering. CJK
// text has no word boundaries, so every contiguous 2- and 3-character run is
// a candidate: recall over precision, with relevance scoring absorbing the
// overlap noise.
func ExtractKeywords(text string) []string {
	if ContainsCJK(text) {
		return extractCJKKeywords(text)
	}
	return extractLatinKeywords(text)
}

func extractLatinKeywords(text string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	var keywords []string
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(sb.String()) {
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, stop := latinStopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

func extractCJKKeywords(text string) []string {
	// Keep CJK characters, letters, digits and spaces; everything else
	// becomes a separator.
	var sb strings.Builder
	for _, r := range text {
		if unicode.Is(unicode.Han, r) || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	cleaned := sb.String()

	var keywords []string
	seen := make(map[string]struct{})
	add := func(kw string) {
		if _, dup := seen[kw]; dup {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	// Whitespace-delimited runs first: product names and model numbers tend
	// to survive as whole tokens.
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) > 1 {
			add(word)
		}
	}

	// All contiguous 2- and 3-character combinations of the CJK stream.
	var chars []rune
	for _, r := range cleaned {
		if unicode.Is(unicode.Han, r) {
			chars = append(chars, r)
		}
	}
	for i := 0; i < len(chars)-1; i++ {
		add(string(chars[i : i+2]))
		if i < len(chars)-2 {
			add(string(chars[i : i+3]))
		}
	}

	return keywords
}
