package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindPage builds find options for one page of results. The skip is
// (page-1)*pageSize for page >= 1; a non-positive page reads the first page.
// Results are ordered newest-first so pages are stable between requests.
func FindPage(page, pageSize int) *options.FindOptions {
	opts := options.Find().
		SetLimit(int64(pageSize)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	if page > 1 {
		opts.SetSkip(int64((page - 1) * pageSize))
	}

	return opts
}
