package app

import (
	"fmt"
	"log"

	"sitegate/internal/gateway/config"
	assetrepo "sitegate/internal/gateway/repository/asset"
	contentrepo "sitegate/internal/gateway/repository/content"
	"sitegate/internal/gateway/repository/tenant"
)

type gatewayStores struct {
	content contentrepo.Store
	assets  assetrepo.Store
	tenants *tenant.Store
}

func initStores(cfg *config.Config) (*gatewayStores, error) {
	var (
		contentStore contentrepo.Store
		assetStore   assetrepo.Store
	)

	if cfg.Storage.CanUseS3() {
		s3Content, err := contentrepo.NewS3Store(contentrepo.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init content s3 store: %w", err)
		}
		s3Assets, err := assetrepo.NewS3Store(assetrepo.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init asset s3 store: %w", err)
		}
		log.Printf("storage: s3 bucket=%s endpoint=%s", cfg.Storage.Bucket, cfg.Storage.Endpoint)
		contentStore = s3Content
		assetStore = s3Assets
	} else {
		if cfg.Storage.Enabled {
			log.Printf("storage: using in-memory fallback (s3 config incomplete)")
		}
		contentStore = contentrepo.NewMemoryStore()
		assetStore = assetrepo.NewMemoryStore()
	}

	cached, err := contentrepo.NewCachedStore(contentStore, 256)
	if err != nil {
		return nil, fmt.Errorf("init content cache: %w", err)
	}

	var tenants *tenant.Store
	if cfg.DatabaseURL != "" {
		tenants, err = tenant.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init tenant registry: %w", err)
		}
		log.Printf("tenant registry: postgres")
	} else {
		tenants = tenant.New(cfg.TenantFile)
		log.Printf("tenant registry: file %s", cfg.TenantFile)
	}

	return &gatewayStores{
		content: cached,
		assets:  assetStore,
		tenants: tenants,
	}, nil
}
