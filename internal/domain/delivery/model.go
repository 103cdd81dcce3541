package delivery

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"

	BillingPending   = "pending"
	BillingReady     = "ready"
	BillingSubmitted = "submitted"
	BillingPaid      = "paid"
)

var (
	validStatuses        = map[string]bool{StatusScheduled: true, StatusCompleted: true, StatusCancelled: true, StatusNoShow: true}
	validBillingStatuses = map[string]bool{BillingPending: true, BillingReady: true, BillingSubmitted: true, BillingPaid: true}
)

// ServiceRecord is a delivered or scheduled client service session.
type ServiceRecord struct {
	ID                     uuid.UUID  `json:"id"`
	ClientID               uuid.UUID  `json:"clientId"`
	ProviderID             *uuid.UUID `json:"providerId,omitempty"`
	ServiceDate            time.Time  `json:"serviceDate"`
	ServiceType            string     `json:"serviceType"`
	Units                  *int       `json:"units,omitempty"`
	Rate                   *int       `json:"rate,omitempty"`
	TotalAmount            *int       `json:"totalAmount,omitempty"`
	BillingStatus          string     `json:"billingStatus"`
	DocumentationCompleted bool       `json:"documentationCompleted"`
	Notes                  *string    `json:"notes,omitempty"`
	ServiceLocation        *string    `json:"serviceLocation,omitempty"`
	Status                 string     `json:"status"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

type Filter struct {
	ClientID *uuid.UUID
}
