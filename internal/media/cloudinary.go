package media

import (
	"context"
	"fmt"
	"io"

	"mineart/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore implements Store against the Cloudinary upload API.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
	preset string
}

// NewCloudinaryStore creates a Store from the configured credentials
func NewCloudinaryStore(cfg config.MediaConfig) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media client: %w", err)
	}

	return &CloudinaryStore{
		client: client,
		preset: cfg.UploadPreset,
	}, nil
}

// Upload sends the file to the media host and returns its asset reference
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, folder string) (Asset, error) {
	result, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		UploadPreset: s.preset,
	})
	if err != nil {
		return Asset{}, fmt.Errorf("failed to upload media: %w", err)
	}
	if result.Error.Message != "" {
		return Asset{}, fmt.Errorf("media host rejected upload: %s", result.Error.Message)
	}

	return Asset{
		ID:  result.PublicID,
		URL: result.SecureURL,
	}, nil
}

// Destroy removes the asset by its public id
func (s *CloudinaryStore) Destroy(ctx context.Context, id string) error {
	result, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return fmt.Errorf("failed to destroy media %s: %w", id, err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("failed to destroy media %s: %s", id, result.Result)
	}

	return nil
}
