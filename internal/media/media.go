// Package media wraps the hosted media service the catalog stores its
// images on. The rest of the application only ever sees opaque {id,url}
// asset references; raw file bytes pass straight through to the host.
package media

import (
	"context"
	"io"
)

// Asset is a hosted image reference as returned by the media host.
type Asset struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Store is the upload/destroy contract the catalog depends on.
type Store interface {
	Upload(ctx context.Context, file io.Reader, folder string) (Asset, error)
	Destroy(ctx context.Context, id string) error
}
