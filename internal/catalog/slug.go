package catalog

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into one hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	s = nonSlugRun.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// projectSlug derives a slug from a slash-separated path relative to the
// asset root. Segments that slugify to nothing are dropped. Distinct
// directories may produce the same slug; that is not checked here.
func projectSlug(relPath, title string) string {
	var parts []string
	for _, seg := range strings.Split(relPath, "/") {
		if s := Slugify(seg); s != "" {
			parts = append(parts, s)
		}
	}
	if slug := strings.Join(parts, "/"); slug != "" {
		return slug
	}
	if slug := Slugify(title); slug != "" {
		return slug
	}
	return title
}
