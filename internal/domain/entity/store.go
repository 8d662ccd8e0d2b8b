package entity

import (
	"regexp"
	"strings"
	"time"
)

// Store is the slug-keyed storefront record of a franchise. The slug is
// the document identifier, so renaming a store creates a new record.
type Store struct {
	Slug        string
	FranchiseID string
	Name        string
	Status      StoreStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// StoreSlug turns a store name into a URL-safe slug: lower-cased, runs
// of non-alphanumeric characters collapsed into single hyphens.
func StoreSlug(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")

	return strings.Trim(slug, "-")
}
