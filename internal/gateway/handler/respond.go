package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	assetrepo "sitegate/internal/gateway/repository/asset"
	contentrepo "sitegate/internal/gateway/repository/content"
	assetsvc "sitegate/internal/gateway/service/asset"
	buildsvc "sitegate/internal/gateway/service/build"
	contentsvc "sitegate/internal/gateway/service/content"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var contentVErr *contentsvc.ValidationError
	if errors.As(err, &contentVErr) {
		if len(contentVErr.Details) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   contentVErr.Message,
				"details": contentVErr.Details,
			})
			return
		}
		writeError(w, http.StatusBadRequest, contentVErr.Message)
		return
	}
	var assetVErr *assetsvc.ValidationError
	if errors.As(err, &assetVErr) {
		writeError(w, http.StatusBadRequest, assetVErr.Message)
		return
	}
	var cdErr *buildsvc.CooldownError
	if errors.As(err, &cdErr) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":         cdErr.Error(),
			"remainingTime": cdErr.RemainingMinutes(),
		})
		return
	}
	if errors.Is(err, contentrepo.ErrNotFound) || errors.Is(err, assetrepo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	log.Printf("handler: %v", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
