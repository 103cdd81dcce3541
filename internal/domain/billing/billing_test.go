package billing

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

type mockClaimRepo struct {
	store map[uuid.UUID]*Claim
}

func newMockClaimRepo() *mockClaimRepo {
	return &mockClaimRepo{store: make(map[uuid.UUID]*Claim)}
}

func (m *mockClaimRepo) Create(_ context.Context, c *Claim) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now().Add(time.Duration(len(m.store)) * time.Millisecond)
	m.store[c.ID] = c
	return nil
}

func (m *mockClaimRepo) GetByID(_ context.Context, id uuid.UUID) (*Claim, error) {
	c, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFound("claim")
	}
	return c, nil
}

func (m *mockClaimRepo) List(_ context.Context, status string, limit, offset int) ([]*Claim, int, error) {
	var r []*Claim
	for _, c := range m.store {
		if status == "" || c.Status == status {
			r = append(r, c)
		}
	}
	sort.Slice(r, func(i, j int) bool { return r[i].CreatedAt.After(r[j].CreatedAt) })
	return pagination.Window(r, pagination.Params{Limit: limit, Offset: offset}), len(r), nil
}

func validClaim() *Claim {
	return &Claim{ClientID: uuid.New(), ClaimNumber: "CLM-1001", ServiceDate: time.Now(), Amount: 1250, Payer: "Medicaid"}
}

func TestCreateClaim_DefaultsStatusAndClaimDate(t *testing.T) {
	svc := NewService(newMockClaimRepo())
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	c := validClaim()
	if err := svc.CreateClaim(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != StatusPending {
		t.Errorf("expected pending, got %s", c.Status)
	}
	if c.ClaimDate == nil || !c.ClaimDate.Equal(fixed) {
		t.Errorf("expected claim date %v, got %v", fixed, c.ClaimDate)
	}
}

func TestCreateClaim_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Claim)
	}{
		{"missing client", func(c *Claim) { c.ClientID = uuid.Nil }},
		{"missing number", func(c *Claim) { c.ClaimNumber = "" }},
		{"missing service date", func(c *Claim) { c.ServiceDate = time.Time{} }},
		{"zero amount", func(c *Claim) { c.Amount = 0 }},
		{"missing payer", func(c *Claim) { c.Payer = "  " }},
		{"bad status", func(c *Claim) { c.Status = "rejected" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClaim()
			tt.mutate(c)
			err := NewService(newMockClaimRepo()).CreateClaim(context.Background(), c)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListPendingClaims(t *testing.T) {
	svc := NewService(newMockClaimRepo())
	ctx := context.Background()
	svc.CreateClaim(ctx, validClaim())
	paid := validClaim()
	paid.Status = StatusPaid
	svc.CreateClaim(ctx, paid)

	items, total, err := svc.ListPendingClaims(ctx, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].Status != StatusPending {
		t.Errorf("expected one pending claim, got %d", total)
	}
}

func TestClaim_Outstanding(t *testing.T) {
	paid, adj := int64(800), int64(100)
	c := &Claim{Amount: 1000, AmountPaid: &paid, AdjustmentAmount: &adj}
	if got := c.Outstanding(); got != 100 {
		t.Errorf("expected 100 outstanding, got %d", got)
	}
	over := int64(1200)
	c.AmountPaid = &over
	if got := c.Outstanding(); got != 0 {
		t.Errorf("expected overpayment to clamp at 0, got %d", got)
	}
}

func TestHandler_CreateClaim(t *testing.T) {
	h := NewHandler(NewService(newMockClaimRepo()))
	body := `{"clientId":"` + uuid.New().String() + `","claimNumber":"CLM-9","serviceDate":"2026-02-10T00:00:00Z","amount":300,"payer":"BCBS"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing-claims", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.CreateClaim(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"pending"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_GetClaim_NotFound(t *testing.T) {
	h := NewHandler(NewService(newMockClaimRepo()))
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	he, ok := h.GetClaim(c).(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", he)
	}
}
