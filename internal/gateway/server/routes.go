package server

import (
	"net/http"

	"sitegate/internal/gateway/handler"
	"sitegate/internal/gateway/middleware"
	"sitegate/internal/gateway/repository/tenant"
	"sitegate/internal/ratelimit"
)

func NewMux(
	filesHandler *handler.FilesHandler,
	schemaHandler *handler.SchemaHandler,
	buildHandler *handler.BuildHandler,
	deployWSHandler *handler.DeployWSHandler,
	imagesHandler *handler.ImagesHandler,
	adminHandler *handler.AdminHandler,
	registry *tenant.Store,
	limiter *ratelimit.Limiter,
) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/api/files/get", filesHandler.HandleGet)
	api.HandleFunc("/api/files/save", filesHandler.HandleSave)
	api.HandleFunc("/api/files/list", filesHandler.HandleList)
	api.HandleFunc("/api/files/upload", filesHandler.HandleUpload)
	api.HandleFunc("/api/files/delete", filesHandler.HandleDelete)
	api.HandleFunc("/api/files/create-folder", filesHandler.HandleCreateFolder)
	api.HandleFunc("/api/files/init-folders", filesHandler.HandleInitFolders)
	api.HandleFunc("/api/files/init-config", filesHandler.HandleInitConfig)
	api.HandleFunc("/api/schema/infer", schemaHandler.HandleInfer)
	api.HandleFunc("/api/build/trigger", buildHandler.HandleTrigger)
	api.HandleFunc("/api/build/status", buildHandler.HandleStatus)
	api.HandleFunc("/api/deploy/ws", deployWSHandler.HandleWatch)

	auth := middleware.Auth(registry)
	rate := middleware.RateLimit(limiter, ratelimit.DefaultEndpointLimits())

	mux := http.NewServeMux()
	mux.Handle("/api/", auth(rate(api)))
	// Provisioning is gated by the bootstrap token, not tenant auth.
	mux.HandleFunc("/api/admin/tenants", adminHandler.HandleTenants)
	// The image proxy is public, the deployed site links straight to it.
	mux.HandleFunc("/images/", imagesHandler.HandleServe)

	return middleware.CORS(mux)
}
