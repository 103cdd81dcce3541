package staff

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adolbicare/clinic/internal/platform/apperr"
	"github.com/adolbicare/clinic/pkg/pagination"
)

type mockRepo struct {
	records map[uuid.UUID]*Member
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*Member)}
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Member, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, apperr.NotFound("staff member")
	}
	return r, nil
}

func (m *mockRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*Member, int, error) {
	var result []*Member
	for _, r := range m.records {
		if activeOnly && !r.Active {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return pagination.Window(result, pagination.Params{Limit: limit, Offset: offset}), len(result), nil
}

func (m *mockRepo) Upsert(_ context.Context, mem *Member) error {
	for _, r := range m.records {
		if *r.ExternalID == *mem.ExternalID {
			mem.ID = r.ID
		}
	}
	if mem.ID == uuid.Nil {
		mem.ID = uuid.New()
		mem.CreatedAt = time.Now().Add(time.Duration(len(m.records)) * time.Millisecond)
	}
	m.records[mem.ID] = mem
	return nil
}

func strPtr(s string) *string { return &s }

func TestMember_LicenseExpiresWithin(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window := 60 * 24 * time.Hour
	at := func(d time.Duration) *time.Time { v := now.Add(d); return &v }

	tests := []struct {
		name string
		exp  *time.Time
		want bool
	}{
		{"no license", nil, false},
		{"already expired", at(-time.Hour), false},
		{"in thirty days", at(30 * 24 * time.Hour), true},
		{"on the boundary", at(window), true},
		{"in ninety days", at(90 * 24 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Member{LicenseExpiration: tt.exp}
			if got := m.LicenseExpiresWithin(now, window); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_Save(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	m := &Member{ExternalID: strPtr("ext-1"), Name: strPtr("Jordan Lee"), Role: "therapist", Active: true}
	if err := svc.Save(ctx, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again := &Member{ExternalID: strPtr("ext-1"), Name: strPtr("Jordan Lee, LCSW"), Role: "therapist", Active: true}
	svc.Save(ctx, again)
	if again.ID != m.ID {
		t.Error("expected upsert to keep the same id")
	}

	for _, role := range []string{"billing", "admin", "user"} {
		err := svc.Save(ctx, &Member{ExternalID: strPtr("x"), Role: role})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("role %s: expected validation error, got %v", role, err)
		}
	}
	if err := svc.Save(ctx, &Member{Role: "therapist"}); !errors.Is(err, apperr.ErrValidation) {
		t.Error("expected missing external id to be rejected")
	}
}

func TestHandler_ListActive(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	ctx := context.Background()
	h.svc.Save(ctx, &Member{ExternalID: strPtr("a"), Role: "therapist", Active: true})
	h.svc.Save(ctx, &Member{ExternalID: strPtr("b"), Role: "case_manager", Active: false})

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/staff/active", nil), rec)
	if err := h.ListActive(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("expected one active member: %s", rec.Body.String())
	}
}

func TestHandler_Get_InvalidID(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")
	if he, ok := h.Get(c).(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Error("expected 400 for a non-uuid id")
	}
}
