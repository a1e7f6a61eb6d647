// Package validation guards every caller-supplied name, key, and document
// before it reaches object storage.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fileNameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	prefixRe   = regexp.MustCompile(`^[a-zA-Z0-9/_-]*$`)
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

var allowedFileExtensions = []string{".json", ".js", ".ts", ".html", ".css"}

var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// FileName reports whether name is a safe storable filename: no path
// traversal, no separators, a bounded length, a safe character set, and an
// allowed extension.
func FileName(name string) bool {
	if name == "" || len(name) > 255 {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	if !fileNameRe.MatchString(name) {
		return false
	}
	for _, ext := range allowedFileExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Prefix reports whether a listing prefix is safe to pass to storage.
func Prefix(prefix string) bool {
	if len(prefix) > 512 || strings.Contains(prefix, "..") {
		return false
	}
	return prefixRe.MatchString(prefix)
}

// ObjectKey reports whether a full storage key may be read or deleted:
// it must stay under the clients/ namespace and contain no traversal.
func ObjectKey(key string) bool {
	if key == "" || strings.Contains(key, "..") {
		return false
	}
	return strings.HasPrefix(key, "clients/")
}

// ImageType reports whether a MIME type is an accepted upload format.
func ImageType(mimeType string) bool {
	return allowedImageTypes[strings.ToLower(strings.TrimSpace(mimeType))]
}

// FileSize reports whether size fits under maxMB megabytes.
func FileSize(size int64, maxMB int64) bool {
	if maxMB <= 0 {
		maxMB = 10
	}
	return size > 0 && size <= maxMB*1024*1024
}

// Document rejects content that cannot round-trip JSON or smuggles
// prototype-pollution key names into stored documents.
func Document(doc map[string]any) error {
	if doc == nil {
		return fmt.Errorf("document is required")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("document is not serializable: %w", err)
	}
	for _, banned := range []string{"__proto__", "constructor", "prototype"} {
		if strings.Contains(string(raw), banned) {
			return fmt.Errorf("document contains forbidden token %q", banned)
		}
	}
	return nil
}

// ConfigError describes one failed check of a site config document.
type ConfigError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SiteConfig validates the structure of config.json: a titled site block,
// well-formed theme colors, and complete page entries.
func SiteConfig(doc map[string]any) []ConfigError {
	var errs []ConfigError

	site, ok := doc["site"].(map[string]any)
	if !ok {
		errs = append(errs, ConfigError{Path: "site", Message: "site section is required"})
	} else if title, _ := site["title"].(string); strings.TrimSpace(title) == "" {
		errs = append(errs, ConfigError{Path: "site.title", Message: "site title is required"})
	}

	if theme, ok := doc["theme"].(map[string]any); ok {
		for _, field := range []string{"primaryColor", "secondaryColor"} {
			color, _ := theme[field].(string)
			if !hexColorRe.MatchString(color) {
				errs = append(errs, ConfigError{Path: "theme." + field, Message: "color must be #RRGGBB"})
			}
		}
	} else {
		errs = append(errs, ConfigError{Path: "theme", Message: "theme section is required"})
	}

	if pages, ok := doc["pages"].([]any); ok {
		for i, p := range pages {
			page, ok := p.(map[string]any)
			if !ok {
				errs = append(errs, ConfigError{Path: fmt.Sprintf("pages.%d", i), Message: "page must be an object"})
				continue
			}
			for _, field := range []string{"id", "title", "slug"} {
				if v, _ := page[field].(string); strings.TrimSpace(v) == "" {
					errs = append(errs, ConfigError{
						Path:    fmt.Sprintf("pages.%d.%s", i, field),
						Message: field + " is required",
					})
				}
			}
		}
	}

	return errs
}
