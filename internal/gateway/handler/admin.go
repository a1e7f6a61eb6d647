package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"sitegate/internal/gateway/repository/tenant"
)

// AdminHandler provisions tenant records. It is gated by a bootstrap
// token instead of the per-tenant auth middleware.
type AdminHandler struct {
	registry *tenant.Store
	token    string
}

func NewAdminHandler(registry *tenant.Store, token string) *AdminHandler {
	return &AdminHandler{registry: registry, token: strings.TrimSpace(token)}
}

func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if h.token == "" {
		writeError(w, http.StatusForbidden, "Admin API disabled")
		return false
	}
	header := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	presented := strings.TrimSpace(header[len(prefix):])
	if subtle.ConstantTimeCompare([]byte(presented), []byte(h.token)) != 1 {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	return true
}

// HandleTenants serves GET (list) and POST (upsert) on /api/admin/tenants.
func (h *AdminHandler) HandleTenants(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost, http.MethodPut:
		h.upsert(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *AdminHandler) list(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.registry.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tenants": tenants})
}

func (h *AdminHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID       string                `json:"id"`
		Name     string                `json:"name"`
		APIToken string                `json:"apiToken"`
		Active   *bool                 `json:"active"`
		GitHub   tenant.GitHubSettings `json:"github"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(in.ID) == "" {
		writeError(w, http.StatusBadRequest, "Tenant id is required")
		return
	}

	rec := tenant.Tenant{
		ID:       in.ID,
		Name:     in.Name,
		APIToken: in.APIToken,
		// New tenants start active unless the request says otherwise.
		Active: in.Active == nil || *in.Active,
		GitHub: in.GitHub,
	}
	if existing, err := h.registry.Get(r.Context(), rec.ID); err == nil {
		rec.CreatedAt = existing.CreatedAt
		if in.Active == nil {
			rec.Active = existing.Active
		}
		if strings.TrimSpace(rec.APIToken) == "" {
			rec.APIToken = existing.APIToken
		}
	} else if !errors.Is(err, tenant.ErrNotFound) {
		writeServiceError(w, err)
		return
	}

	if err := h.registry.Put(r.Context(), rec); err != nil {
		writeServiceError(w, err)
		return
	}
	saved, err := h.registry.Get(r.Context(), rec.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tenant": saved})
}
