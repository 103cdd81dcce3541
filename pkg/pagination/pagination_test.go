package pagination

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(query string) Params {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients?"+query, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultLimit, 0},
		{"limit=5&offset=10", 5, 10},
		{"limit=1000", MaxLimit, 0},
		{"limit=-3&offset=-1", DefaultLimit, 0},
		{"limit=abc", DefaultLimit, 0},
	}
	for _, tt := range tests {
		p := paramsFor(tt.query)
		if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
			t.Errorf("%q: got %+v, want limit=%d offset=%d", tt.query, p, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestParams_Navigation(t *testing.T) {
	p := Params{Limit: 10, Offset: 5}
	if !p.HasNext(20) || p.HasNext(15) {
		t.Error("unexpected HasNext")
	}
	if !p.HasPrevious() || p.PreviousOffset() != 0 || p.NextOffset() != 15 {
		t.Errorf("unexpected navigation for %+v", p)
	}
	if p.SQL() != "LIMIT 10 OFFSET 5" {
		t.Errorf("unexpected SQL %q", p.SQL())
	}
}

func TestResponse_WithLinks(t *testing.T) {
	q := url.Values{"status": {"active"}}
	r := NewResponse([]int{1, 2}, 30, Params{Limit: 10, Offset: 10}).WithLinks("/api/v1/clients", q)

	if !r.HasMore {
		t.Error("expected HasMore")
	}
	if r.Next != "/api/v1/clients?limit=10&offset=20&status=active" {
		t.Errorf("unexpected next %q", r.Next)
	}
	if r.Prev != "/api/v1/clients?limit=10&offset=0&status=active" {
		t.Errorf("unexpected prev %q", r.Prev)
	}
	if q.Get("limit") != "" {
		t.Error("WithLinks must not mutate the caller's query")
	}
}

func TestWindow(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	if got := Window(items, Params{Limit: 2, Offset: 1}); len(got) != 2 || got[0] != "b" {
		t.Errorf("unexpected window %v", got)
	}
	if got := Window(items, Params{Limit: 10, Offset: 3}); len(got) != 1 {
		t.Errorf("unexpected tail %v", got)
	}
	if got := Window(items, Params{Limit: 2, Offset: 9}); len(got) != 0 {
		t.Errorf("expected empty page, got %v", got)
	}
}
