package tenant

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tenants (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  api_token TEXT NOT NULL DEFAULT '',
  gh_owner TEXT NOT NULL DEFAULT '',
  gh_repo TEXT NOT NULL DEFAULT '',
  gh_branch TEXT NOT NULL DEFAULT 'main',
  gh_workflow TEXT NOT NULL DEFAULT '',
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS tenants_api_token_idx
  ON tenants (api_token) WHERE api_token <> '';
`)
	})
	return s.schemaErr
}

const tenantColumns = `id, name, api_token, gh_owner, gh_repo, gh_branch, gh_workflow, active, created_at, updated_at`

func scanTenant(row *sql.Row) (Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.APIToken,
		&t.GitHub.Owner, &t.GitHub.Repo, &t.GitHub.Branch, &t.GitHub.Workflow,
		&t.Active, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Tenant{}, ErrNotFound
	}
	if err != nil {
		return Tenant{}, err
	}
	return normalizeTenant(t), nil
}

func (s *Store) getDB(ctx context.Context, tenantID string) (Tenant, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Tenant{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, tenantID)
	return scanTenant(row)
}

func (s *Store) getByTokenDB(ctx context.Context, token string) (Tenant, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Tenant{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE api_token = $1 AND api_token <> '' AND active`, token)
	return scanTenant(row)
}

func (s *Store) putDB(ctx context.Context, t Tenant) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO tenants (id, name, api_token, gh_owner, gh_repo, gh_branch, gh_workflow, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  api_token = EXCLUDED.api_token,
  gh_owner = EXCLUDED.gh_owner,
  gh_repo = EXCLUDED.gh_repo,
  gh_branch = EXCLUDED.gh_branch,
  gh_workflow = EXCLUDED.gh_workflow,
  active = EXCLUDED.active,
  updated_at = EXCLUDED.updated_at
`, t.ID, t.Name, t.APIToken, t.GitHub.Owner, t.GitHub.Repo, t.GitHub.Branch, t.GitHub.Workflow,
		t.Active, t.CreatedAt, t.UpdatedAt)
	return err
}

func (s *Store) listDB(ctx context.Context) ([]Tenant, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Tenant, 0, 16)
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.APIToken,
			&t.GitHub.Owner, &t.GitHub.Repo, &t.GitHub.Branch, &t.GitHub.Workflow,
			&t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, normalizeTenant(t))
	}
	return out, rows.Err()
}
