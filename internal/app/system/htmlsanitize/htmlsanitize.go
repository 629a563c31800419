// Package htmlsanitize cleans user-entered text before it is stored.
//
// Meetup titles, descriptions, cancellation reasons and profile bios are
// shown by web and mobile clients that may render them as HTML. All markup
// is stripped; entities are decoded so "Tom & Jerry" round-trips as typed.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce sync.Once
	strict     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// Text strips every HTML element from s, decodes entities and trims
// surrounding whitespace. Script and style bodies are dropped entirely.
func Text(s string) string {
	if s == "" {
		return ""
	}
	if IsPlainText(s) && !strings.Contains(s, "&") {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy().Sanitize(s)))
}

// TextPtr applies Text to *p. A nil pointer stays nil.
func TextPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := Text(*p)
	return &v
}

// IsPlainText reports whether s contains no HTML tags.
// A lone "<" or ">" (as in "5 < 10") is plain text.
func IsPlainText(s string) bool {
	i := strings.Index(s, "<")
	if i < 0 {
		return true
	}
	return !strings.Contains(s[i:], ">")
}
