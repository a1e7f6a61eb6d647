// Package tenant is the registry of site tenants and their deploy
// settings. It backs onto a JSON file or Postgres.
package tenant

import (
	"strings"
	"time"
)

// GitHubSettings point at the static-site repo whose Actions workflow
// rebuilds the tenant's site.
type GitHubSettings struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Branch   string `json:"branch,omitempty"`
	Workflow string `json:"workflow,omitempty"`
}

type Tenant struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	APIToken  string         `json:"apiToken"`
	Active    bool           `json:"active"`
	GitHub    GitHubSettings `json:"github"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func normalizeTenant(t Tenant) Tenant {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.APIToken = strings.TrimSpace(t.APIToken)
	t.GitHub.Owner = strings.TrimSpace(t.GitHub.Owner)
	t.GitHub.Repo = strings.TrimSpace(t.GitHub.Repo)
	t.GitHub.Branch = strings.TrimSpace(t.GitHub.Branch)
	t.GitHub.Workflow = strings.TrimSpace(t.GitHub.Workflow)
	if t.GitHub.Branch == "" {
		t.GitHub.Branch = "main"
	}
	return t
}
