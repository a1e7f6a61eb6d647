package app

import (
	"context"
	"fmt"

	"sitegate/internal/gateway/config"
	"sitegate/internal/gateway/handler"
	"sitegate/internal/gateway/server"
	assetsvc "sitegate/internal/gateway/service/asset"
	buildsvc "sitegate/internal/gateway/service/build"
	contentsvc "sitegate/internal/gateway/service/content"
	"sitegate/internal/github"
	"sitegate/internal/ratelimit"
)

type App struct {
	server *server.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	stores, err := initStores(cfg)
	if err != nil {
		return nil, err
	}

	// Services
	gh := github.NewClient(cfg.GitHubToken)
	buildSvc := buildsvc.New(stores.tenants, stores.content, gh)
	contentSvc := contentsvc.New(stores.content, func(ctx context.Context, tenantID string) {
		// A saved content.json is a rebuild signal; cooldown errors here
		// just mean one is already queued.
		_ = buildSvc.Trigger(ctx, tenantID, "content.json updated")
	})
	assetSvc := assetsvc.New(stores.assets, cfg.PublicBaseURL)

	// Handlers
	filesHandler := handler.NewFilesHandler(contentSvc, assetSvc)
	schemaHandler := handler.NewSchemaHandler(contentSvc)
	buildHandler := handler.NewBuildHandler(buildSvc)
	deployWSHandler := handler.NewDeployWSHandler(buildSvc)
	imagesHandler := handler.NewImagesHandler(assetSvc)
	adminHandler := handler.NewAdminHandler(stores.tenants, cfg.AdminToken)

	// Routing & Server
	mux := server.NewMux(
		filesHandler,
		schemaHandler,
		buildHandler,
		deployWSHandler,
		imagesHandler,
		adminHandler,
		stores.tenants,
		ratelimit.NewLimiter(),
	)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
