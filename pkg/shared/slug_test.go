package shared

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Hello World!", "hello-world"},
		{"  --Multiple   spaces__and_underscores--  ", "multiple-spaces-and-underscores"},
		{"Already-a-slug", "already-a-slug"},
		{"--hello--", "hello"},
		{"Hello\u00a0World", "hello-world"},
		{"Launch\u2003day\u3000notes", "launch-day-notes"},
		{"Q3 2024: Results & Outlook", "q3-2024-results-outlook"},
		{"مرحبا بالعالم", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := GenerateSlug(tc.input); got != tc.want {
			t.Fatalf("GenerateSlug(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestGenerateSlugIsIdempotent(t *testing.T) {
	inputs := []string{"Hello World!", "a -- b", "Über cool_post", "x"}
	for _, input := range inputs {
		once := GenerateSlug(input)
		if twice := GenerateSlug(once); twice != once {
			t.Fatalf("slug not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestFirstSlugSkipsEmptyCandidates(t *testing.T) {
	if got := FirstSlug("", "عنوان", "English Title"); got != "english-title" {
		t.Fatalf("expected english-title, got %q", got)
	}
	if got := FirstSlug("عنوان"); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}
