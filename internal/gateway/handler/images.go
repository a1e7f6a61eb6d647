package handler

import (
	"errors"
	"net/http"
	"strings"

	assetsvc "sitegate/internal/gateway/service/asset"
)

// ImagesHandler is the public asset proxy. The site itself loads images
// through it, so it runs without auth.
type ImagesHandler struct {
	assets *assetsvc.Service
}

func NewImagesHandler(assets *assetsvc.Service) *ImagesHandler {
	return &ImagesHandler{assets: assets}
}

func (h *ImagesHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/images/")
	if key == "" || key == r.URL.Path {
		writeError(w, http.StatusBadRequest, "image key is required")
		return
	}

	data, contentType, err := h.assets.Fetch(r.Context(), key)
	if err != nil {
		var verr *assetsvc.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	_, _ = w.Write(data)
}
