package shared

import (
	"regexp"
	"strings"
)

var (
	slugSeparators = regexp.MustCompile(`[\s\p{Zs}_]+`)
	slugInvalid    = regexp.MustCompile(`[^\w-]+`)
	slugHyphens    = regexp.MustCompile(`-{2,}`)
)

// GenerateSlug turns free text into a lowercase, hyphen-delimited identifier.
// Only ASCII word characters survive, so input made entirely of other scripts
// produces "" and callers must reject it.
func GenerateSlug(text string) string {
	slug := strings.TrimSpace(strings.ToLower(text))
	slug = slugSeparators.ReplaceAllString(slug, "-")
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// FirstSlug returns the first non-empty slug generated from candidates.
func FirstSlug(candidates ...string) string {
	for _, candidate := range candidates {
		if slug := GenerateSlug(candidate); slug != "" {
			return slug
		}
	}
	return ""
}
