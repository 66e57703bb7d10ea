package taxonomy

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindCategory    Kind = "category"
	KindCompetition Kind = "competition"
)

// Term is a presentation grouping attached to fixture records.
type Term struct {
	ID   int64
	Kind Kind
	Name string
	Slug string
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and collapses everything else into single dashes.
func Slugify(name string) string {
	slug := slugUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}
