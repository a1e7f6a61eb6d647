// Package handler is the JSON REST surface of the admin gateway.
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"sitegate/internal/gateway/middleware"
	assetsvc "sitegate/internal/gateway/service/asset"
	contentsvc "sitegate/internal/gateway/service/content"
)

const maxUploadBody = 11 << 20

// FilesHandler serves the /api/files routes.
type FilesHandler struct {
	content *contentsvc.Service
	assets  *assetsvc.Service
}

func NewFilesHandler(content *contentsvc.Service, assets *assetsvc.Service) *FilesHandler {
	return &FilesHandler{content: content, assets: assets}
}

func requestTenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	t, ok := middleware.TenantFromContext(r.Context())
	if !ok || strings.TrimSpace(t.ID) == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return t.ID, true
}

func (h *FilesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}
	filename := strings.TrimSpace(r.URL.Query().Get("filename"))
	if filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	raw, err := h.content.Load(r.Context(), tenantID, filename)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": raw})
}

func (h *FilesHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var in struct {
		Filename string         `json:"filename"`
		Data     map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(in.Filename) == "" || in.Data == nil {
		writeError(w, http.StatusBadRequest, "filename and data are required")
		return
	}

	if err := h.content.Save(r.Context(), tenantID, in.Filename, in.Data); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *FilesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}
	prefix := r.URL.Query().Get("prefix")

	items, err := h.assets.List(r.Context(), tenantID, prefix)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": items})
}

func (h *FilesHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	prefix := r.FormValue("prefix")
	contentType := header.Header.Get("Content-Type")

	res, err := h.assets.Upload(r.Context(), tenantID, prefix, header.Filename, contentType, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"fileName": res.FileName,
		"url":      res.URL,
	})
}

func (h *FilesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var in struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(in.Key) == "" {
		writeError(w, http.StatusBadRequest, "file key is required")
		return
	}

	if err := h.assets.Delete(r.Context(), tenantID, in.Key); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *FilesHandler) HandleCreateFolder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}
	var in struct {
		FolderName string `json:"folderName"`
		Category   string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	path, err := h.assets.CreateFolder(r.Context(), tenantID, in.Category, in.FolderName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"path":    path,
	})
}

func (h *FilesHandler) HandleInitFolders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}

	created, err := h.assets.InitFolders(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"folders": created,
	})
}

func (h *FilesHandler) HandleInitConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}

	seeded, err := h.content.InitConfig(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"seeded":  seeded,
	})
}
