package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"sitegate/internal/gateway/middleware"
	assetrepo "sitegate/internal/gateway/repository/asset"
	contentrepo "sitegate/internal/gateway/repository/content"
	"sitegate/internal/gateway/repository/tenant"
	assetsvc "sitegate/internal/gateway/service/asset"
	contentsvc "sitegate/internal/gateway/service/content"
)

func newFilesHandler(t *testing.T) (*FilesHandler, *assetrepo.MemoryStore) {
	t.Helper()
	assets := assetrepo.NewMemoryStore()
	return NewFilesHandler(
		contentsvc.New(contentrepo.NewMemoryStore(), nil),
		assetsvc.New(assets, "https://admin.example.com"),
	), assets
}

func asTenant(r *http.Request, tenantID string) *http.Request {
	ctx := middleware.WithTenant(r.Context(), tenant.Tenant{ID: tenantID})
	return r.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHandleGetWithoutTenant(t *testing.T) {
	h, _ := newFilesHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/files/get?filename=content.json", nil)
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestHandleGetMissingDocument(t *testing.T) {
	h, _ := newFilesHandler(t)
	req := asTenant(httptest.NewRequest(http.MethodGet, "/api/files/get?filename=content.json", nil), "acme")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleSaveThenGet(t *testing.T) {
	h, _ := newFilesHandler(t)

	saveBody := `{"filename":"content.json","data":{"hero":{"title":"Hi"}}}`
	req := asTenant(httptest.NewRequest(http.MethodPost, "/api/files/save", strings.NewReader(saveBody)), "acme")
	rec := httptest.NewRecorder()
	h.HandleSave(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["success"] != true {
		t.Fatalf("save body = %v", body)
	}

	req = asTenant(httptest.NewRequest(http.MethodGet, "/api/files/get?filename=content.json", nil), "acme")
	rec = httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	data, _ := body["data"].(map[string]any)
	hero, _ := data["hero"].(map[string]any)
	if hero["title"] != "Hi" {
		t.Fatalf("get body = %v", body)
	}
}

func TestHandleSaveBadFilename(t *testing.T) {
	h, _ := newFilesHandler(t)
	saveBody := `{"filename":"../evil.json","data":{"a":"b"}}`
	req := asTenant(httptest.NewRequest(http.MethodPost, "/api/files/save", strings.NewReader(saveBody)), "acme")
	rec := httptest.NewRecorder()
	h.HandleSave(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSaveConfigValidationDetails(t *testing.T) {
	h, _ := newFilesHandler(t)
	saveBody := `{"filename":"config.json","data":{"site":{"title":""},"theme":{"primaryColor":"red","secondaryColor":"#FFFFFF"}}}`
	req := asTenant(httptest.NewRequest(http.MethodPost, "/api/files/save", strings.NewReader(saveBody)), "acme")
	rec := httptest.NewRecorder()
	h.HandleSave(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["details"].([]any); !ok {
		t.Fatalf("details missing: %v", body)
	}
}

func TestHandleSaveWrongMethod(t *testing.T) {
	h, _ := newFilesHandler(t)
	req := asTenant(httptest.NewRequest(http.MethodGet, "/api/files/save", nil), "acme")
	rec := httptest.NewRecorder()
	h.HandleSave(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func multipartUpload(t *testing.T, fieldName, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.WriteField("prefix", "images/hero/"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	h, _ := newFilesHandler(t)
	body, contentType := multipartUpload(t, "file", "banner.png", "image/png", []byte("png-bytes"))

	req := asTenant(httptest.NewRequest(http.MethodPost, "/api/files/upload", body), "acme")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody(t, rec)
	url, _ := resp["url"].(string)
	if !strings.HasPrefix(url, "https://admin.example.com/images/clients/acme/images/hero/") {
		t.Fatalf("url = %q", url)
	}
}

func TestHandleUploadRejectsNonImage(t *testing.T) {
	h, _ := newFilesHandler(t)
	body, contentType := multipartUpload(t, "file", "doc.pdf", "application/pdf", []byte("x"))

	req := asTenant(httptest.NewRequest(http.MethodPost, "/api/files/upload", body), "acme")
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDeleteCrossTenant(t *testing.T) {
	h, assets := newFilesHandler(t)
	key, err := assets.Upload(context.Background(), "other", "images/a.png", "image/png", []byte("x"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := asTenant(httptest.NewRequest(http.MethodPost, "/api/files/delete",
		strings.NewReader(`{"key":"`+key+`"}`)), "acme")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleInitFolders(t *testing.T) {
	h, _ := newFilesHandler(t)
	req := asTenant(httptest.NewRequest(http.MethodPost, "/api/files/init-folders", nil), "acme")
	rec := httptest.NewRecorder()
	h.HandleInitFolders(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	folders, _ := body["folders"].([]any)
	if len(folders) != len(assetrepo.DefaultFolders) {
		t.Fatalf("folders = %v", folders)
	}
}

func TestHandleInitConfig(t *testing.T) {
	h, _ := newFilesHandler(t)
	req := asTenant(httptest.NewRequest(http.MethodPost, "/api/files/init-config", nil), "acme")
	rec := httptest.NewRecorder()
	h.HandleInitConfig(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	// The seeded config is immediately readable.
	req = asTenant(httptest.NewRequest(http.MethodGet, "/api/files/get?filename=config.json", nil), "acme")
	rec = httptest.NewRecorder()
	h.HandleGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get seeded config: status = %d", rec.Code)
	}
}
