package asset

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryObject),
	}
}

func (s *MemoryStore) List(_ context.Context, tenantID, prefix string) ([]Object, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	full := tenantPrefix(tenantID) + strings.TrimLeft(prefix, "/")

	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	out := make([]Object, 0, 16)
	for key, obj := range s.data {
		if !strings.HasPrefix(key, full) {
			continue
		}
		rest := strings.TrimPrefix(key, full)
		if i := strings.Index(rest, "/"); i >= 0 && i < len(rest)-1 {
			// Deeper entries collapse into a folder prefix.
			folder := full + rest[:i+1]
			if !seen[folder] {
				seen[folder] = true
				out = append(out, Object{Key: folder, IsFolder: true, LastModified: obj.lastModified})
			}
			continue
		}
		out = append(out, Object{
			Key:          key,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
			ContentType:  obj.contentType,
			IsFolder:     strings.HasSuffix(key, "/"),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStore) ListAll(_ context.Context, tenantID, prefix string) ([]string, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	full := tenantPrefix(tenantID) + strings.TrimLeft(prefix, "/")

	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, 16)
	for key := range s.data {
		if !strings.HasPrefix(key, full) || strings.HasSuffix(key, "/") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Upload(_ context.Context, tenantID, fileName, contentType string, data []byte) (string, error) {
	tenantID = strings.TrimSpace(tenantID)
	fileName = strings.TrimLeft(strings.TrimSpace(fileName), "/")
	if tenantID == "" {
		return "", fmt.Errorf("tenant id is required")
	}
	if fileName == "" {
		return "", fmt.Errorf("file name is required")
	}

	key := tenantPrefix(tenantID) + fileName
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = memoryObject{
		data:         append([]byte(nil), data...),
		contentType:  contentType,
		lastModified: time.Now(),
	}
	return key, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) CreateFolder(_ context.Context, tenantID, category, name string) (string, error) {
	if strings.TrimSpace(tenantID) == "" {
		return "", fmt.Errorf("tenant id is required")
	}
	key := folderKey(tenantID, category, name)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = memoryObject{contentType: "application/x-directory", lastModified: time.Now()}
	return key, nil
}

func (s *MemoryStore) EnsureFolders(_ context.Context, tenantID string, folders []string) ([]string, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	created := make([]string, 0, len(folders))
	for _, folder := range folders {
		key := folderKey(tenantID, folder, "")
		if _, ok := s.data[key]; ok {
			continue
		}
		s.data[key] = memoryObject{contentType: "application/x-directory", lastModified: time.Now()}
		created = append(created, folder)
	}
	return created, nil
}

func (s *MemoryStore) Fetch(_ context.Context, key string) ([]byte, string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, "", fmt.Errorf("key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.data[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	contentType := obj.contentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return append([]byte(nil), obj.data...), contentType, nil
}
