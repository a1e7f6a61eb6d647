package handler

import (
	"encoding/json"
	"net/http"

	contentsvc "sitegate/internal/gateway/service/content"
)

// SchemaHandler exposes server-side schema inference for section data.
type SchemaHandler struct {
	content *contentsvc.Service
}

func NewSchemaHandler(content *contentsvc.Service) *SchemaHandler {
	return &SchemaHandler{content: content}
}

func (h *SchemaHandler) HandleInfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requestTenant(w, r); !ok {
		return
	}
	var in struct {
		Data     json.RawMessage   `json:"data"`
		Mappings map[string]string `json:"mappings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(in.Data) == 0 {
		writeError(w, http.StatusBadRequest, "data is required")
		return
	}

	res, err := h.content.InferSchema(in.Data, in.Mappings)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
