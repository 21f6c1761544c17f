// Package sanitize cleans user-supplied strings before they reach the database.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = newUGCPolicy()

	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugJunk    = regexp.MustCompile(`[-_]+`)
	spaces      = regexp.MustCompile(`\s+`)

	angleBrackets = strings.NewReplacer("<", "", ">", "")
)

// maxTextPasses bounds the unescape/strip rounds of Text.
const maxTextPasses = 4

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowAttrs("class").OnElements("span", "div", "p", "table", "td", "th")
	return p
}

// Text strips every tag from s, entity-encoded ones included, and collapses
// whitespace. Entities are decoded in the result.
func Text(s string) string {
	cleaned := html.UnescapeString(s)
	stable := false
	for i := 0; i < maxTextPasses; i++ {
		next := html.UnescapeString(strictPolicy.Sanitize(cleaned))
		if next == cleaned {
			stable = true
			break
		}
		cleaned = next
	}
	if !stable {
		cleaned = angleBrackets.Replace(cleaned)
	}
	return strings.TrimSpace(spaces.ReplaceAllString(cleaned, " "))
}

// HTML keeps the markup allowed in rich content and drops the rest (scripts,
// event handlers, iframes, inline styles).
func HTML(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

// Slug turns s into a lowercase, dash separated identifier. It returns an empty
// string when nothing usable is left.
func Slug(s string) string {
	return strings.Trim(slugJunk.ReplaceAllString(slug.Make(Text(s)), "-"), "-")
}

// IsSlug reports whether s is already a normalized slug.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Strings applies Text to each element and drops empty and duplicate values,
// keeping the first occurrence.
func Strings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = Text(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
