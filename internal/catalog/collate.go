package catalog

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders display strings and paths: case and accents are ignored
// and digit runs compare by value, so "img2" sorts before "img10".
type Collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// NewCollator returns a root-locale collator with numeric ordering.
func NewCollator() *Collator {
	return &Collator{c: collate.New(language.Und, collate.Loose, collate.Numeric)}
}

// Compare returns -1, 0 or 1. Safe for concurrent use.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

// compareProjects orders by category, then title.
func (c *Collator) compareProjects(a, b Project) int {
	if n := c.Compare(a.Category, b.Category); n != 0 {
		return n
	}
	return c.Compare(a.Title, b.Title)
}

// equalFold is the category match used by queries.
func equalFold(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}
