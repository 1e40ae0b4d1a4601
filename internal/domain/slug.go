package domain

import (
	gosimple "github.com/gosimple/slug"
)

// Slugify derives the URL-safe identifier for a name: lower-cased,
// hyphen-separated, ASCII only. Slugs are regenerated whenever the name
// changes; uniqueness is enforced by a unique index on the collection.
func Slugify(name string) string {
	return gosimple.Make(name)
}
