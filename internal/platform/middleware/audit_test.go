package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adolbicare/clinic/internal/platform/auth"
)

type mockRecorder struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error
}

func (m *mockRecorder) RecordAccess(entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *mockRecorder) last() AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func newTestContext(method, path string, opts ...func(*http.Request)) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withAuth(userID string, roles []string) func(*http.Request) {
	return func(req *http.Request) {
		*req = *req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{ID: userID, Roles: roles}))
	}
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestAudit_ClientRead(t *testing.T) {
	clientID := uuid.New().String()
	rec := &mockRecorder{}
	c, _ := newTestContext(http.MethodGet, "/api/v1/clients/"+clientID, withAuth("user-1", []string{"therapist"}))
	c.Set("request_id", "req-1")

	if err := Audit(zerolog.New(os.Stderr), rec)(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.count() != 1 {
		t.Fatalf("expected 1 entry, got %d", rec.count())
	}
	e := rec.last()
	if e.UserID != "user-1" || e.Action != "read" || e.ResourceType != "clients" {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.ClientID != clientID || e.ResourceID != clientID {
		t.Errorf("expected client id %s, got %+v", clientID, e)
	}
	if e.RequestID != "req-1" || e.StatusCode != http.StatusOK {
		t.Errorf("unexpected request metadata %+v", e)
	}
}

func TestAudit_CreateWithClientQuery(t *testing.T) {
	clientID := uuid.New().String()
	rec := &mockRecorder{}
	c, _ := newTestContext(http.MethodPost, "/api/v1/services?client_id="+clientID)

	_ = Audit(zerolog.New(os.Stderr), rec)(okHandler)(c)
	e := rec.last()
	if e.Action != "create" || e.ResourceType != "services" || e.ClientID != clientID {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestAudit_SkipsNonAPIPaths(t *testing.T) {
	rec := &mockRecorder{}
	c, _ := newTestContext(http.MethodGet, "/health")
	_ = Audit(zerolog.New(os.Stderr), rec)(okHandler)(c)
	if rec.count() != 0 {
		t.Errorf("expected no audit entry for /health, got %d", rec.count())
	}
}

func TestAudit_RecorderErrorDoesNotBreakRequest(t *testing.T) {
	rec := &mockRecorder{err: errors.New("db down")}
	c, resp := newTestContext(http.MethodGet, "/api/v1/referrals")
	if err := Audit(zerolog.New(os.Stderr), rec)(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.Code)
	}
}

func TestAudit_PropagatesHandlerError(t *testing.T) {
	c, _ := newTestContext(http.MethodDelete, "/api/v1/documents")
	want := echo.NewHTTPError(http.StatusNotFound, "document not found")
	err := Audit(zerolog.New(os.Stderr))(func(c echo.Context) error { return want })(c)
	if err != want {
		t.Errorf("expected handler error to propagate, got %v", err)
	}
}

func TestHttpMethodToAction(t *testing.T) {
	tests := map[string]string{
		http.MethodGet:    "read",
		http.MethodHead:   "read",
		http.MethodPost:   "create",
		http.MethodPut:    "update",
		http.MethodPatch:  "update",
		http.MethodDelete: "delete",
	}
	for method, want := range tests {
		if got := httpMethodToAction(method); got != want {
			t.Errorf("httpMethodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}

func TestSplitResourcePath(t *testing.T) {
	id := uuid.New().String()
	tests := []struct {
		path     string
		wantType string
		wantID   string
	}{
		{"/api/v1/clients", "clients", ""},
		{fmt.Sprintf("/api/v1/clients/%s", id), "clients", id},
		{fmt.Sprintf("/api/v1/clients/%s/crisis-events", id), "clients", id},
		{"/api/v1/referrals/pending", "referrals", ""},
		{"/api/v1/", "unknown", ""},
	}
	for _, tt := range tests {
		gotType, gotID := splitResourcePath(tt.path)
		if gotType != tt.wantType || gotID != tt.wantID {
			t.Errorf("splitResourcePath(%q) = (%q, %q), want (%q, %q)", tt.path, gotType, gotID, tt.wantType, tt.wantID)
		}
	}
}

func TestAuditRecorderFunc(t *testing.T) {
	var called bool
	fn := AuditRecorderFunc(func(entry AuditEntry) error {
		called = true
		return nil
	})
	if err := fn.RecordAccess(AuditEntry{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected function to be called")
	}
}
