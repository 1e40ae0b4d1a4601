package transport

import (
	"net/http"
	"path"

	"mineart/internal/media"
	"mineart/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadBytes caps one multipart upload request at 32 MiB
const maxUploadBytes = 32 << 20

// UploadHandler handles admin media uploads and direct-upload signing
type UploadHandler struct {
	store  media.Store
	signer *media.Signer
	folder string
	logger *zap.Logger
}

// NewUploadHandler creates a new UploadHandler. folder is the root folder
// assets land under on the media host.
func NewUploadHandler(store media.Store, signer *media.Signer, folder string, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		store:  store,
		signer: signer,
		folder: folder,
		logger: logger,
	}
}

// RegisterRoutes registers the admin upload routes
func (h *UploadHandler) RegisterRoutes(r chi.Router, adminOnly ...func(http.Handler) http.Handler) {
	r.Route("/api/admin/uploads", func(r chi.Router) {
		r.Use(adminOnly...)
		r.Post("/", h.Upload)
		r.Get("/signature", h.Signature)
	})
}

// Upload pushes every file in a multipart request to the media host and
// returns their asset references. A subfolder can be selected with the
// "folder" form field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "no files provided")
		return
	}

	folder := h.folder
	if sub := r.FormValue("folder"); sub != "" {
		folder = path.Join(h.folder, sub)
	}

	assets := make([]media.Asset, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "unreadable file in request")
			return
		}

		asset, err := h.store.Upload(r.Context(), file, folder)
		file.Close()
		if err != nil {
			h.logger.Error("Failed to upload asset",
				zap.String("filename", header.Filename),
				zap.Error(err),
			)
			middleware.RespondWithError(w, http.StatusBadGateway, "media host rejected the upload")
			return
		}

		assets = append(assets, asset)
	}

	middleware.RespondWithJSON(w, http.StatusCreated, assets)
}

// Signature issues a timestamped signature for a direct browser upload
func (h *UploadHandler) Signature(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.signer.SignNow())
}
