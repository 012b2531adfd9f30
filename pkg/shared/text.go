package shared

import (
	"strings"
	"unicode/utf8"
)

// DefaultWordsPerMinute is the reading rate used when none is supplied.
const DefaultWordsPerMinute = 200

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// CalculateReadingTime estimates reading minutes for text, rounding up. Empty
// text yields 0; callers that need a floor of one minute apply it themselves.
func CalculateReadingTime(text string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// TruncateText shortens text to maxLength runes, trims trailing whitespace,
// and appends Ellipsis. Text that already fits is returned unchanged.
func TruncateText(text string, maxLength int) string {
	if maxLength < 0 {
		maxLength = 0
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:maxLength]), " \t\r\n") + Ellipsis
}
