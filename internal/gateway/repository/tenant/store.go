package tenant

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrNotFound = errors.New("tenant not found")

// Store is the tenant registry. With a DSN it runs on Postgres,
// otherwise it loads and saves a JSON file.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Tenant

	schemaOnce sync.Once
	schemaErr  error
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Tenant),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("TENANT_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) Get(ctx context.Context, tenantID string) (Tenant, error) {
	if s == nil {
		return Tenant{}, ErrNotFound
	}
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return Tenant{}, ErrNotFound
	}
	if s.db != nil {
		return s.getDB(ctx, tenantID)
	}
	return s.getFile(tenantID)
}

// GetByToken resolves the tenant owning an API token. Used by the auth
// middleware on every request. Deactivated tenants do not resolve.
func (s *Store) GetByToken(ctx context.Context, token string) (Tenant, error) {
	if s == nil {
		return Tenant{}, ErrNotFound
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Tenant{}, ErrNotFound
	}
	if s.db != nil {
		return s.getByTokenDB(ctx, token)
	}
	return s.getByTokenFile(token)
}

func (s *Store) Put(ctx context.Context, t Tenant) error {
	if s == nil {
		return errors.New("store is nil")
	}
	t = normalizeTenant(t)
	if t.ID == "" {
		return errors.New("tenant id is required")
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if s.db != nil {
		return s.putDB(ctx, t)
	}
	return s.putFile(t)
}

func (s *Store) List(ctx context.Context) ([]Tenant, error) {
	if s == nil {
		return nil, nil
	}
	if s.db != nil {
		return s.listDB(ctx)
	}
	return s.listFile(), nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
