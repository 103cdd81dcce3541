package referrals

import (
	"time"

	"github.com/google/uuid"
)

const (
	UrgencyRoutine   = "routine"
	UrgencyUrgent    = "urgent"
	UrgencyEmergency = "emergency"

	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
	StatusCompleted = "completed"
)

var validUrgency = map[string]bool{UrgencyRoutine: true, UrgencyUrgent: true, UrgencyEmergency: true}
var validStatuses = map[string]bool{StatusPending: true, StatusAccepted: true, StatusDeclined: true, StatusCompleted: true}

// Referral maps to the referrals table. ClientID stays empty until intake
// creates the client record.
type Referral struct {
	ID                   uuid.UUID  `json:"id"`
	ClientID             *uuid.UUID `json:"clientId,omitempty"`
	ReferralDate         time.Time  `json:"referralDate"`
	ReferralSource       *string    `json:"referralSource,omitempty"`
	ReferralContactName  *string    `json:"referralContactName,omitempty"`
	ReferralContactPhone *string    `json:"referralContactPhone,omitempty"`
	ReferralContactEmail *string    `json:"referralContactEmail,omitempty"`
	UrgencyLevel         string     `json:"urgencyLevel"`
	PriorityScore        *int       `json:"priorityScore,omitempty"`
	AssignedTo           *uuid.UUID `json:"assignedTo,omitempty"`
	Status               string     `json:"status"`
	ResponseDueDate      *time.Time `json:"responseDueDate,omitempty"`
	IntakeScheduledDate  *time.Time `json:"intakeScheduledDate,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// IsUrgent reports urgent and emergency referrals.
func (r *Referral) IsUrgent() bool {
	return r.UrgencyLevel == UrgencyUrgent || r.UrgencyLevel == UrgencyEmergency
}
