package referrals

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
	records map[uuid.UUID]*Referral
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*Referral)}
}

func (m *mockRepo) Create(_ context.Context, r *Referral) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now().Add(time.Duration(len(m.records)) * time.Millisecond)
	m.records[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Referral, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, apperr.NotFound("referral")
	}
	return r, nil
}

func (m *mockRepo) List(_ context.Context, status string, limit, offset int) ([]*Referral, int, error) {
	var result []*Referral
	for _, r := range m.records {
		if status == "" || r.Status == status {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return pagination.Window(result, pagination.Params{Limit: limit, Offset: offset}), len(result), nil
}

func TestService_Create_Defaults(t *testing.T) {
	svc := NewService(newMockRepo())
	r := &Referral{ReferralDate: time.Now()}
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.UrgencyLevel != UrgencyRoutine || r.Status != StatusPending {
		t.Errorf("expected routine/pending, got %s/%s", r.UrgencyLevel, r.Status)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	for _, r := range []*Referral{
		{},
		{ReferralDate: time.Now(), UrgencyLevel: "asap"},
		{ReferralDate: time.Now(), Status: "lost"},
	} {
		if err := svc.Create(context.Background(), r); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("expected validation error for %+v, got %v", r, err)
		}
	}
}

func TestService_ListPending(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	svc.Create(ctx, &Referral{ReferralDate: time.Now()})
	svc.Create(ctx, &Referral{ReferralDate: time.Now(), Status: StatusAccepted})

	items, total, _ := svc.ListPending(ctx, 10, 0)
	if total != 1 || items[0].Status != StatusPending {
		t.Errorf("expected one pending referral, got %d", total)
	}
}

func TestReferral_IsUrgent(t *testing.T) {
	for level, want := range map[string]bool{UrgencyRoutine: false, UrgencyUrgent: true, UrgencyEmergency: true} {
		r := Referral{UrgencyLevel: level}
		if r.IsUrgent() != want {
			t.Errorf("IsUrgent(%s) = %v, want %v", level, r.IsUrgent(), want)
		}
	}
}

func TestHandler_CreateAndGet(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"referralDate":"2026-03-01T09:00:00Z","urgencyLevel":"urgent","referralSource":"School"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var id uuid.UUID
	for k := range h.svc.repo.(*mockRepo).records {
		id = k
	}
	rec = httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"urgencyLevel":"urgent"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_Create_MissingDate(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"referralSource":"School"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	err := h.Create(echo.New().NewContext(req, httptest.NewRecorder()))
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
