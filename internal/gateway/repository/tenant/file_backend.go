package tenant

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		// Rows written before tenants could be deactivated carry no
		// "active" field; they load as active.
		type fileRow struct {
			Tenant
			Active *bool `json:"active"`
		}
		var rows []fileRow
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.Tenant.ID)
			if id == "" {
				continue
			}
			row.Tenant.Active = row.Active == nil || *row.Active
			s.byID[id] = normalizeTenant(row.Tenant)
		}
	})
}

func (s *Store) saveFile() error {
	s.mu.RLock()
	rows := make([]Tenant, 0, len(s.byID))
	for _, t := range s.byID {
		rows = append(rows, t)
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(tenantID string) (Tenant, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	t, ok := s.byID[tenantID]
	s.mu.RUnlock()
	if !ok {
		return Tenant{}, ErrNotFound
	}
	return t, nil
}

func (s *Store) getByTokenFile(token string) (Tenant, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.byID {
		if t.Active && t.APIToken != "" && t.APIToken == token {
			return t, nil
		}
	}
	return Tenant{}, ErrNotFound
}

func (s *Store) putFile(t Tenant) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	s.byID[t.ID] = t
	s.mu.Unlock()
	return s.saveFile()
}

func (s *Store) listFile() []Tenant {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tenant, 0, len(s.byID))
	for _, t := range s.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
