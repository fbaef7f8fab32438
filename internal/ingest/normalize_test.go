package ingest

import (
	"reflect"
	"testing"
)

func TestArticleID_Stable(t *testing.T) {
	a := ArticleID("https://example.com/story")
	b := ArticleID("https://example.com/story")
	if a != b {
		t.Errorf("same URL produced different IDs: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16-char ID, got %d chars", len(a))
	}
	if a == ArticleID("https://example.com/other") {
		t.Error("different URLs produced the same ID")
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got := NormalizeWhitespace("  foo \t bar\n\nbaz ")
	if got != "foo bar baz" {
		t.Errorf("got %q", got)
	}
	if NormalizeWhitespace("   ") != "" {
		t.Error("expected empty string for all-whitespace input")
	}
}

func TestIsEnglish(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Show HN: A new database written in Go", true},
		{"", false},
		{"Сегодня в новостях только кириллица", false},
		{"Café culture in Paris", true},
	}
	for _, tt := range tests {
		if got := IsEnglish(tt.text); got != tt.want {
			t.Errorf("IsEnglish(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("The Quantum Computing breakthrough that shocked quantum researchers")
	want := []string{"breakthrough", "computing", "quantum", "researchers", "shocked"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractKeywords_DropsShortAndStopwords(t *testing.T) {
	got := ExtractKeywords("this is a day out with the cat")
	if len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}
}
