package clients

import (
	"time"

	"github.com/google/uuid"
)

const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"

	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusDischarged = "discharged"
)

var validRiskLevels = map[string]bool{RiskLow: true, RiskMedium: true, RiskHigh: true, RiskCritical: true}
var validStatuses = map[string]bool{StatusActive: true, StatusInactive: true, StatusDischarged: true}

// ValidRiskLevel is shared with crisis events, which use the same scale.
func ValidRiskLevel(s string) bool { return validRiskLevels[s] }

// Client maps to the clients table.
type Client struct {
	ID                    uuid.UUID  `json:"id"`
	FirstName             string     `json:"firstName"`
	LastName              string     `json:"lastName"`
	DateOfBirth           *time.Time `json:"dateOfBirth,omitempty"`
	Gender                *string    `json:"gender,omitempty"`
	SSN                   *string    `json:"ssn,omitempty"`
	Phone                 *string    `json:"phone,omitempty"`
	Email                 *string    `json:"email,omitempty"`
	Address               *string    `json:"address,omitempty"`
	City                  *string    `json:"city,omitempty"`
	State                 *string    `json:"state,omitempty"`
	ZipCode               *string    `json:"zipCode,omitempty"`
	GuardianName          *string    `json:"guardianName,omitempty"`
	GuardianPhone         *string    `json:"guardianPhone,omitempty"`
	GuardianRelationship  *string    `json:"guardianRelationship,omitempty"`
	MedicaidID            *string    `json:"medicaidId,omitempty"`
	InsuranceProvider     *string    `json:"insuranceProvider,omitempty"`
	InsurancePolicyNumber *string    `json:"insurancePolicyNumber,omitempty"`
	PrimaryDiagnosis      *string    `json:"primaryDiagnosis,omitempty"`
	SecondaryDiagnosis    *string    `json:"secondaryDiagnosis,omitempty"`
	RiskLevel             string     `json:"riskLevel"`
	Status                string     `json:"status"`
	AdmissionDate         *time.Time `json:"admissionDate,omitempty"`
	DischargeDate         *time.Time `json:"dischargeDate,omitempty"`
	PlacementType         *string    `json:"placementType,omitempty"`
	PlacementAddress      *string    `json:"placementAddress,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Patch carries the fields a client update may change. Nil leaves the
// stored value alone.
type Patch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	RiskLevel *string `json:"riskLevel"`
	Status    *string `json:"status"`
}

func (p Patch) Apply(c *Client) {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	if p.Email != nil {
		c.Email = p.Email
	}
	if p.RiskLevel != nil {
		c.RiskLevel = *p.RiskLevel
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Status string
}
