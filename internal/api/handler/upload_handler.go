package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"portfolio_api/internal/common"
	"portfolio_api/internal/storage"

	"github.com/go-chi/chi/v5"
)

// UploadHandler serves stored image blobs referenced by project image URLs.
type UploadHandler struct {
	images storage.Store
}

func NewUploadHandler(images storage.Store) *UploadHandler {
	return &UploadHandler{images: images}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{name}", h.serveImage)
}

func (h *UploadHandler) serveImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	blob, err := h.images.Open(r.Context(), name)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Image not found")
		return
	}
	defer blob.Close()

	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, blob); err != nil {
		// Headers are already out; nothing useful left to report to the client.
		return
	}
}
