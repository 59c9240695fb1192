package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adte.com/adte/tv-agent/internal/api"
	"adte.com/adte/tv-agent/internal/auth"
	"adte.com/adte/tv-agent/internal/backend"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fullAccessPrincipal() *auth.Principal {
	return &auth.Principal{
		PrincipalID: "principal_test",
		Permissions: map[string][]auth.Permission{
			"products":   {auth.PermissionRead, auth.PermissionWrite},
			"media_buys": {auth.PermissionRead, auth.PermissionWrite},
			"signals":    {auth.PermissionRead, auth.PermissionWrite},
			"creatives":  {auth.PermissionRead, auth.PermissionWrite},
			"reports":    {auth.PermissionRead},
		},
	}
}

func withPrincipal(r *http.Request, p *auth.Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), auth.ContextKeyPrincipal, p))
}

func TestRootHandlerListsOperations(t *testing.T) {
	h := NewHTTPHandler(backend.New("http://backend.local"), testLogger())
	rec := httptest.NewRecorder()
	h.RootHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var doc struct {
		Agent      string `json:"agent"`
		Protocol   string `json:"protocol"`
		Version    string `json:"version"`
		Operations []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"operations"`
		Call string `json:"call"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode discovery document: %v", err)
	}
	if doc.Protocol != "adcp" || doc.Version != api.ProtocolVersion {
		t.Errorf("protocol = %s %s", doc.Protocol, doc.Version)
	}
	if len(doc.Operations) != len(backend.Operations) {
		t.Errorf("got %d operations, want %d", len(doc.Operations), len(backend.Operations))
	}
	for _, op := range doc.Operations {
		if op.Description == "" {
			t.Errorf("operation %s has no description", op.Name)
		}
	}
	if doc.Call != "/call/{operation}" {
		t.Errorf("call = %s", doc.Call)
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHTTPHandler(backend.New("http://backend.local"), testLogger())
	rec := httptest.NewRecorder()
	h.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %s", body["status"])
	}
	if body["backend"] != "http://backend.local" {
		t.Errorf("backend = %s", body["backend"])
	}
}

func TestCallHandlerRejectsGet(t *testing.T) {
	h := NewHTTPHandler(backend.New("http://backend.local"), testLogger())
	rec := httptest.NewRecorder()
	h.CallHandler(rec, httptest.NewRequest(http.MethodGet, "/call/get_channels", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	var resp api.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestCallHandlerUnknownOperation(t *testing.T) {
	h := NewHTTPHandler(backend.New("http://backend.local"), testLogger())
	rec := httptest.NewRecorder()
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/call/get_unicorns", nil), fullAccessPrincipal())
	h.CallHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var resp api.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Code != "UNKNOWN_OPERATION" {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestCallHandlerInsufficientPermissions(t *testing.T) {
	h := NewHTTPHandler(backend.New("http://backend.local"), testLogger())

	readonly := &auth.Principal{
		PrincipalID: "principal_readonly",
		Permissions: map[string][]auth.Permission{
			"products": {auth.PermissionRead},
		},
	}
	rec := httptest.NewRecorder()
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/call/create_media_buy", strings.NewReader(`{}`)), readonly)
	h.CallHandler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	var resp api.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Code != "INSUFFICIENT_PERMISSIONS" {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestCallHandlerInvalidArguments(t *testing.T) {
	h := NewHTTPHandler(backend.New("http://backend.local"), testLogger())
	rec := httptest.NewRecorder()
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/call/create_media_buy", strings.NewReader(`{"budget":"lots"}`)), fullAccessPrincipal())
	h.CallHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp api.ErrorResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Code != "INVALID_ARGUMENTS" {
		t.Errorf("code = %s", resp.Code)
	}
	if resp.Details == "" {
		t.Error("details should carry the decode error")
	}
}

func TestCallHandlerForwardsToBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/channels" {
			t.Errorf("backend path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"channels":[{"code":"al_aoula"}]}`))
	}))
	defer srv.Close()

	h := NewHTTPHandler(backend.New(srv.URL), testLogger())
	rec := httptest.NewRecorder()
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/call/get_channels", nil), fullAccessPrincipal())
	h.CallHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result api.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if _, ok := result["channels"]; !ok {
		t.Errorf("result = %v", result)
	}
}

func TestCallHandlerBackendFailureStaysInEnvelope(t *testing.T) {
	// The backend being down is an operation outcome, not a dispatch fault.
	h := NewHTTPHandler(backend.New("http://127.0.0.1:1"), testLogger())
	rec := httptest.NewRecorder()
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/call/get_products", strings.NewReader(`{"query":"spots"}`)), fullAccessPrincipal())
	h.CallHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result api.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result["protocol"] != "adcp" || result["status"] != "failed" {
		t.Errorf("result = %v, want protocol envelope", result)
	}
}

func TestCallHandlerPassthroughOpenToAnyPrincipal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	h := NewHTTPHandler(backend.New("http://backend.local"), testLogger())
	minimal := &auth.Principal{PrincipalID: "principal_min", Permissions: map[string][]auth.Permission{}}

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"url":"` + srv.URL + `/data"}`)
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/call/get_api_data", body), minimal)
	h.CallHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
