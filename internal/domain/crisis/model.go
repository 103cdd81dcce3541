package crisis

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusResolved  = "resolved"
	StatusEscalated = "escalated"
)

var validStatuses = map[string]bool{StatusActive: true, StatusResolved: true, StatusEscalated: true}

// Event maps to the crisis_events table.
type Event struct {
	ID                  uuid.UUID  `json:"id"`
	ClientID            uuid.UUID  `json:"clientId"`
	EventDate           time.Time  `json:"eventDate"`
	CrisisType          string     `json:"crisisType"`
	RiskLevel           string     `json:"riskLevel"`
	Location            *string    `json:"location,omitempty"`
	Description         *string    `json:"description,omitempty"`
	InterventionType    *string    `json:"interventionType,omitempty"`
	InterventionDetails *string    `json:"interventionDetails,omitempty"`
	Outcome             *string    `json:"outcome,omitempty"`
	FollowUpRequired    bool       `json:"followUpRequired"`
	FollowUpDueDate     *time.Time `json:"followUpDueDate,omitempty"`
	FollowUpCompleted   bool       `json:"followUpCompleted"`
	Hospitalization     bool       `json:"hospitalization"`
	Status              string     `json:"status"`
	ReportedBy          *uuid.UUID `json:"reportedBy,omitempty"`
	RespondedBy         *uuid.UUID `json:"respondedBy,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

type Filter struct {
	Status   string
	ClientID *uuid.UUID
}
