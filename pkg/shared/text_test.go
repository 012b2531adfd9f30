package shared

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCalculateReadingTime(t *testing.T) {
	if got := CalculateReadingTime(strings.Repeat("word ", 200), 0); got != 1 {
		t.Fatalf("expected 1 minute, got %d", got)
	}
	if got := CalculateReadingTime(strings.Repeat("word ", 250), DefaultWordsPerMinute); got != 2 {
		t.Fatalf("expected 2 minutes, got %d", got)
	}
	if got := CalculateReadingTime("", 200); got != 0 {
		t.Fatalf("expected 0 for empty text, got %d", got)
	}
	if got := CalculateReadingTime("one two three", 2); got != 2 {
		t.Fatalf("expected custom rate to apply, got %d", got)
	}
}

func TestTruncateText(t *testing.T) {
	if got := TruncateText("Short", 20); got != "Short" {
		t.Fatalf("expected unchanged text, got %q", got)
	}

	long := strings.Repeat("abcdefghij", 5) + "k"
	got := TruncateText(long, 20)
	if !strings.HasSuffix(got, Ellipsis) {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if len(got) != 20+len(Ellipsis) {
		t.Fatalf("expected length %d, got %d", 20+len(Ellipsis), len(got))
	}
}

func TestTruncateTextTrimsAndCountsRunes(t *testing.T) {
	if got := TruncateText("hello world again", 6); got != "hello..." {
		t.Fatalf("expected trailing space trimmed, got %q", got)
	}
	arabic := "مرحبا بكم في موقعنا"
	got := TruncateText(arabic, 5)
	if utf8.RuneCountInString(strings.TrimSuffix(got, Ellipsis)) != 5 {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
}
