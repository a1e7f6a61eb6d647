package handler

import (
	"net/http"

	buildsvc "sitegate/internal/gateway/service/build"
)

// BuildHandler serves the /api/build routes.
type BuildHandler struct {
	build *buildsvc.Service
}

func NewBuildHandler(build *buildsvc.Service) *BuildHandler {
	return &BuildHandler{build: build}
}

func (h *BuildHandler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}

	if err := h.build.Trigger(r.Context(), tenantID, ""); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Build started. The site will update in 2-5 minutes.",
	})
}

func (h *BuildHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}

	status, err := h.build.Status(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
