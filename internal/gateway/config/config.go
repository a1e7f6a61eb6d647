package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// PublicBaseURL prefixes proxied image URLs handed to the admin UI.
	PublicBaseURL string

	// DatabaseURL switches the tenant registry to Postgres when set.
	DatabaseURL string
	// TenantFile is the JSON-file registry fallback.
	TenantFile string

	GitHubToken string

	// AdminToken gates the tenant provisioning endpoints. Empty disables
	// them.
	AdminToken string

	Storage StorageConfig
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (c StorageConfig) CanUseS3() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:          *port,
		Env:           env,
		PublicBaseURL: firstNonEmpty(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "http://localhost:8081"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TenantFile:    firstNonEmpty(strings.TrimSpace(os.Getenv("TENANT_FILE")), "tmp/tenants.json"),
		GitHubToken:   strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		AdminToken:    strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		Storage:       loadStorageConfig(env),
	}, nil
}

func loadStorageConfig(env string) StorageConfig {
	endpoint := resolveStorageEndpoint(env)
	return StorageConfig{
		Enabled:   strings.EqualFold(strings.TrimSpace(env), "local") || endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("STORAGE_S3_REGION")), "auto"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("STORAGE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("STORAGE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("STORAGE_S3_BUCKET")), "sitegate-content"),
		UseSSL:    resolveStorageUseSSL(env),
	}
}

func resolveStorageEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("STORAGE_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("STORAGE_S3_ENDPOINT"))
}

func resolveStorageUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("STORAGE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
