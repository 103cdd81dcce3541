package clients

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/adolbicare/clinic/internal/platform/apperr"
	"github.com/adolbicare/clinic/pkg/pagination"
)

type mockRepo struct {
	records map[uuid.UUID]*Client
	err     error
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*Client)}
}

func (m *mockRepo) Create(_ context.Context, c *Client) error {
	if m.err != nil {
		return m.err
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now().Add(time.Duration(len(m.records)) * time.Millisecond)
	c.UpdatedAt = c.CreatedAt
	m.records[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Client, error) {
	c, ok := m.records[id]
	if !ok {
		return nil, apperr.NotFound("client")
	}
	return c, nil
}

func (m *mockRepo) Update(_ context.Context, c *Client) error {
	if _, ok := m.records[c.ID]; !ok {
		return apperr.NotFound("client")
	}
	m.records[c.ID] = c
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Client, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var result []*Client
	for _, c := range m.records {
		if f.Status == "" || c.Status == f.Status {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return pagination.Window(result, pagination.Params{Limit: limit, Offset: offset}), len(result), nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func strPtr(s string) *string { return &s }

func TestService_Create_Defaults(t *testing.T) {
	svc := newTestService()
	c := &Client{FirstName: " Ana ", LastName: "Lopez"}
	if err := svc.Create(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if c.FirstName != "Ana" {
		t.Errorf("expected trimmed first name, got %q", c.FirstName)
	}
	if c.RiskLevel != RiskLow || c.Status != StatusActive {
		t.Errorf("expected low/active defaults, got %s/%s", c.RiskLevel, c.Status)
	}
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		client Client
	}{
		{"missing first name", Client{LastName: "Lopez"}},
		{"missing last name", Client{FirstName: "Ana"}},
		{"bad risk", Client{FirstName: "Ana", LastName: "Lopez", RiskLevel: "extreme"}},
		{"bad status", Client{FirstName: "Ana", LastName: "Lopez", Status: "archived"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.client
			err := newTestService().Create(context.Background(), &c)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	svc := newTestService()
	c := &Client{FirstName: "Ana", LastName: "Lopez"}
	svc.Create(context.Background(), c)

	updated, err := svc.Update(context.Background(), c.ID, Patch{RiskLevel: strPtr(RiskHigh), Phone: strPtr("555-0100")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.RiskLevel != RiskHigh || *updated.Phone != "555-0100" {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.FirstName != "Ana" {
		t.Error("untouched fields must keep their value")
	}
}

func TestService_Update_Errors(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Update(context.Background(), uuid.New(), Patch{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := svc.Update(context.Background(), uuid.New(), Patch{Status: strPtr("gone")}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := svc.Update(context.Background(), uuid.New(), Patch{FirstName: strPtr("  ")}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for blank name, got %v", err)
	}
}

func TestService_ListActive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	svc.Create(ctx, &Client{FirstName: "A", LastName: "One"})
	svc.Create(ctx, &Client{FirstName: "B", LastName: "Two", Status: StatusDischarged})
	svc.Create(ctx, &Client{FirstName: "C", LastName: "Three"})

	items, total, err := svc.ListActive(ctx, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 active clients, got %d", total)
	}
	if items[0].FirstName != "C" {
		t.Errorf("expected newest first, got %s", items[0].FirstName)
	}
}

func TestService_List_RejectsUnknownStatus(t *testing.T) {
	_, _, err := newTestService().List(context.Background(), Filter{Status: "pending"}, 10, 0)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestClient_FullName(t *testing.T) {
	c := Client{FirstName: "Ana", LastName: "Lopez"}
	if c.FullName() != "Ana Lopez" {
		t.Errorf("unexpected full name %q", c.FullName())
	}
}
