package editor

import (
	"context"
	"log"
	"sort"
	"strings"
)

// Asset is one pickable image in the editor's library.
type Asset struct {
	Name         string `json:"name"`
	RelativePath string `json:"path"`
	Category     string `json:"category"`
}

// AssetLister abstracts the object listing the library is built from. Keys
// are storage paths relative to the tenant root (e.g. images/hero/banner.png).
type AssetLister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// LoadAssets fetches the asset library once per editor. The fetch is
// fire-and-forget: rendering continues with an empty library until it lands,
// and a failed fetch is logged and leaves the library empty.
func (e *Editor) LoadAssets(ctx context.Context) {
	if e.assets == nil {
		return
	}
	e.loadOnce.Do(func() {
		go func() {
			keys, err := e.assets.List(ctx, e.scopePrefix)
			if err != nil {
				log.Printf("editor: asset list fetch failed: %v", err)
				return
			}
			library := buildLibrary(keys, e.scopePrefix)
			e.mu.Lock()
			e.library = library
			e.mu.Unlock()
		}()
	})
}

// Library returns the current asset library snapshot, which may be empty
// while the fetch is outstanding.
func (e *Editor) Library() []Asset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Asset(nil), e.library...)
}

// buildLibrary groups storage keys into assets, inferring each category
// from the path segment after the scope prefix.
func buildLibrary(keys []string, scopePrefix string) []Asset {
	assets := make([]Asset, 0, len(keys))
	for _, key := range keys {
		rel := strings.TrimPrefix(key, scopePrefix)
		rel = strings.TrimPrefix(rel, "/")
		if rel == "" || strings.HasSuffix(rel, "/") {
			continue
		}
		parts := strings.Split(rel, "/")
		category := "general"
		if len(parts) > 1 {
			category = parts[0]
		}
		assets = append(assets, Asset{
			Name:         parts[len(parts)-1],
			RelativePath: parts[len(parts)-1],
			Category:     category,
		})
	}
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].Category != assets[j].Category {
			return assets[i].Category < assets[j].Category
		}
		return assets[i].Name < assets[j].Name
	})
	return assets
}

// groupByCategory splits the library into ordered category groups for the
// image picker.
func groupByCategory(assets []Asset) []AssetGroup {
	var groups []AssetGroup
	index := map[string]int{}
	for _, a := range assets {
		i, ok := index[a.Category]
		if !ok {
			i = len(groups)
			index[a.Category] = i
			groups = append(groups, AssetGroup{Category: a.Category})
		}
		groups[i].Assets = append(groups[i].Assets, a)
	}
	return groups
}

// AssetGroup is one picker section.
type AssetGroup struct {
	Category string  `json:"category"`
	Assets   []Asset `json:"assets"`
}
