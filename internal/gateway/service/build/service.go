// Package build triggers and tracks static-site rebuilds through the
// tenant's GitHub Actions workflow.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"sitegate/internal/github"
	contentrepo "sitegate/internal/gateway/repository/content"
	"sitegate/internal/gateway/repository/tenant"
)

const (
	defaultCooldown = 5 * time.Minute
	defaultWorkflow = "deploy.yml"
	eventType       = "content-updated"
)

// API is the slice of the GitHub client the service depends on.
type API interface {
	Dispatch(ctx context.Context, owner, repo, eventType string, payload any) error
	LatestRun(ctx context.Context, owner, repo, workflow string) (*github.WorkflowRun, error)
}

// CooldownError tells the caller how long until the next allowed build.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("wait %d minutes before the next build", e.RemainingMinutes())
}

// RemainingMinutes rounds up, matching what the admin UI displays.
func (e *CooldownError) RemainingMinutes() int {
	return int((e.Remaining + time.Minute - 1) / time.Minute)
}

// Status is the rebuild state pushed to watchers.
type Status struct {
	TenantID   string    `json:"tenantId"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion,omitempty"`
	Branch     string    `json:"branch,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
	URL        string    `json:"url,omitempty"`
}

type Service struct {
	registry *tenant.Store
	docs     contentrepo.Store
	gh       API

	cooldown time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lastBuild map[string]time.Time

	watchMu      sync.Mutex
	watchers     map[string]map[chan Status]struct{}
	pollCancel   map[string]context.CancelFunc
	pollInterval time.Duration
}

func New(registry *tenant.Store, docs contentrepo.Store, gh API) *Service {
	return &Service{
		registry:     registry,
		docs:         docs,
		gh:           gh,
		cooldown:     defaultCooldown,
		now:          time.Now,
		lastBuild:    make(map[string]time.Time),
		watchers:     make(map[string]map[chan Status]struct{}),
		pollCancel:   make(map[string]context.CancelFunc),
		pollInterval: 10 * time.Second,
	}
}

// settings resolves where a tenant's site builds: the registry first,
// then the github block of the tenant's content.json.
func (s *Service) settings(ctx context.Context, tenantID string) (tenant.GitHubSettings, error) {
	if t, err := s.registry.Get(ctx, tenantID); err == nil {
		if t.GitHub.Owner != "" && t.GitHub.Repo != "" {
			return t.GitHub, nil
		}
	}

	raw, err := s.docs.Get(ctx, tenantID, "content.json")
	if err != nil {
		return tenant.GitHubSettings{}, fmt.Errorf("no github settings for tenant %s", tenantID)
	}
	var doc struct {
		GitHub tenant.GitHubSettings `json:"github"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return tenant.GitHubSettings{}, fmt.Errorf("parse content.json github block: %w", err)
	}
	gh := doc.GitHub
	if gh.Owner == "" || gh.Repo == "" {
		return tenant.GitHubSettings{}, fmt.Errorf("no github settings for tenant %s", tenantID)
	}
	if gh.Branch == "" {
		gh.Branch = "main"
	}
	return gh, nil
}

// Trigger fires a rebuild unless the tenant built within the cooldown
// window.
func (s *Service) Trigger(ctx context.Context, tenantID, reason string) error {
	now := s.now()

	s.mu.Lock()
	if last, ok := s.lastBuild[tenantID]; ok {
		if elapsed := now.Sub(last); elapsed < s.cooldown {
			s.mu.Unlock()
			return &CooldownError{Remaining: s.cooldown - elapsed}
		}
	}
	// Reserve the window before dispatching so concurrent triggers for
	// the same tenant cannot both pass the check.
	s.lastBuild[tenantID] = now
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		if s.lastBuild[tenantID].Equal(now) {
			delete(s.lastBuild, tenantID)
		}
		s.mu.Unlock()
	}

	gh, err := s.settings(ctx, tenantID)
	if err != nil {
		rollback()
		return err
	}

	if reason = strings.TrimSpace(reason); reason == "" {
		reason = "content.json updated"
	}
	payload := map[string]any{
		"tenant":    tenantID,
		"timestamp": now.UTC().Format(time.RFC3339),
		"reason":    reason,
		"branch":    gh.Branch,
	}
	if err := s.gh.Dispatch(ctx, gh.Owner, gh.Repo, eventType, payload); err != nil {
		rollback()
		return err
	}
	return nil
}

// Status reports the latest workflow run for the tenant's site.
func (s *Service) Status(ctx context.Context, tenantID string) (*Status, error) {
	gh, err := s.settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	workflow := gh.Workflow
	if workflow == "" {
		workflow = defaultWorkflow
	}

	run, err := s.gh.LatestRun(ctx, gh.Owner, gh.Repo, workflow)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return &Status{TenantID: tenantID, Status: "unknown"}, nil
	}
	return &Status{
		TenantID:   tenantID,
		Status:     run.Status,
		Conclusion: run.Conclusion,
		Branch:     run.Branch,
		UpdatedAt:  run.UpdatedAt,
		URL:        run.HTMLURL,
	}, nil
}

// Watch subscribes to rebuild status updates for a tenant. The first
// watcher starts a background poller, the last one stops it. The
// returned cancel must be called when the consumer goes away.
func (s *Service) Watch(tenantID string) (<-chan Status, func()) {
	ch := make(chan Status, 8)

	s.watchMu.Lock()
	set, ok := s.watchers[tenantID]
	if !ok {
		set = make(map[chan Status]struct{})
		s.watchers[tenantID] = set
	}
	set[ch] = struct{}{}
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		s.pollCancel[tenantID] = cancel
		go s.poll(ctx, tenantID)
	}
	s.watchMu.Unlock()

	cancel := func() {
		s.watchMu.Lock()
		defer s.watchMu.Unlock()
		set, ok := s.watchers[tenantID]
		if !ok {
			return
		}
		if _, present := set[ch]; !present {
			return
		}
		delete(set, ch)
		close(ch)
		if len(set) == 0 {
			delete(s.watchers, tenantID)
			if stop, ok := s.pollCancel[tenantID]; ok {
				stop()
				delete(s.pollCancel, tenantID)
			}
		}
	}
	return ch, cancel
}

func (s *Service) poll(ctx context.Context, tenantID string) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var last Status
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		status, err := s.Status(ctx, tenantID)
		if err != nil {
			log.Printf("build: poll status for %s: %v", tenantID, err)
			continue
		}
		if *status == last {
			continue
		}
		last = *status
		s.broadcast(tenantID, *status)
	}
}

func (s *Service) broadcast(tenantID string, status Status) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for ch := range s.watchers[tenantID] {
		select {
		case ch <- status:
		default:
			// Slow consumer, drop the update.
		}
	}
}
