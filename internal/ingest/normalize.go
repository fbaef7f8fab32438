package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"unicode"
)

// stopwords are excluded from keyword extraction. The list covers the
// function words that dominate English headlines.
var stopwords = map[string]bool{
	"about": true, "after": true, "against": true, "also": true,
	"been": true, "before": true, "being": true, "between": true,
	"both": true, "could": true, "does": true, "doing": true,
	"down": true, "during": true, "each": true, "from": true,
	"have": true, "having": true, "here": true, "into": true,
	"just": true, "more": true, "most": true, "only": true,
	"other": true, "over": true, "same": true, "should": true,
	"show": true, "some": true, "such": true, "than": true,
	"that": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "under": true, "until": true,
	"very": true, "ever": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "will": true,
	"with": true, "would": true, "your": true,
}

// ArticleID derives a stable identifier from the canonical URL. The same
// URL always maps to the same ID, which is what makes repeated ingestion
// idempotent downstream.
func ArticleID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}

// NormalizeWhitespace collapses all runs of whitespace to single spaces
// and trims the result.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsEnglish applies a cheap ASCII-ratio heuristic. Headlines that are
// mostly non-ASCII are almost never English and would pollute the keyword
// statistics.
func IsEnglish(s string) bool {
	if s == "" {
		return false
	}
	ascii := 0
	total := 0
	for _, r := range s {
		total++
		if r < 128 {
			ascii++
		}
	}
	return float64(ascii)/float64(total) >= 0.9
}

// ExtractKeywords lowercases the text, keeps alphabetic tokens longer than
// three characters, drops stopwords, and returns the unique tokens in
// sorted order.
func ExtractKeywords(text string) []string {
	seen := make(map[string]bool)
	for _, token := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len(token) <= 3 || stopwords[token] {
			continue
		}
		seen[token] = true
	}

	keywords := make([]string, 0, len(seen))
	for token := range seen {
		keywords = append(keywords, token)
	}
	sort.Strings(keywords)
	return keywords
}
