package documents

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Workflow steps, in lifecycle order.
const (
	StepReferralReceipt   = "referral_receipt"
	StepServiceEngagement = "service_engagement"
	StepClinicalReview    = "clinical_review"
	StepCANSAssessment    = "cans_assessment"
	StepServiceDelivery   = "service_delivery"
	StepDocumentationQA   = "documentation_qa"
	StepRiskManagement    = "risk_management"
)

const (
	WorkflowNotStarted = "not_started"
	WorkflowInProgress = "in_progress"
	WorkflowCompleted  = "completed"
	WorkflowSkipped    = "skipped"
)

const (
	DocumentDraft    = "draft"
	DocumentFinal    = "final"
	DocumentArchived = "archived"
)

var (
	validSteps = map[string]bool{
		StepReferralReceipt: true, StepServiceEngagement: true, StepClinicalReview: true, StepCANSAssessment: true,
		StepServiceDelivery: true, StepDocumentationQA: true, StepRiskManagement: true,
	}
	validWorkflowStatuses = map[string]bool{
		WorkflowNotStarted: true, WorkflowInProgress: true, WorkflowCompleted: true, WorkflowSkipped: true,
	}
	validDocumentStatuses = map[string]bool{DocumentDraft: true, DocumentFinal: true, DocumentArchived: true}
)

// ValidStep reports whether step is a known workflow step.
func ValidStep(step string) bool { return validSteps[step] }

type Workflow struct {
	ID           uuid.UUID  `json:"id"`
	ClientID     uuid.UUID  `json:"clientId"`
	WorkflowStep string     `json:"workflowStep"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	StartedBy    *uuid.UUID `json:"startedBy,omitempty"`
	CompletedBy  *uuid.UUID `json:"completedBy,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type Document struct {
	ID            uuid.UUID       `json:"id"`
	ClientID      *uuid.UUID      `json:"clientId,omitempty"`
	WorkflowID    *uuid.UUID      `json:"workflowId,omitempty"`
	ReferralID    *uuid.UUID      `json:"referralId,omitempty"`
	CrisisEventID *uuid.UUID      `json:"crisisEventId,omitempty"`
	ServiceID     *uuid.UUID      `json:"serviceId,omitempty"`
	ClaimID       *uuid.UUID      `json:"claimId,omitempty"`
	DocumentType  string          `json:"documentType"`
	Title         string          `json:"title"`
	Content       *string         `json:"content,omitempty"`
	FilePath      *string         `json:"filePath,omitempty"`
	FileURL       *string         `json:"fileUrl,omitempty"`
	MimeType      *string         `json:"mimeType,omitempty"`
	FileSize      *int            `json:"fileSize,omitempty"`
	GeneratedBy   *string         `json:"generatedBy,omitempty"`
	GeneratedAt   *time.Time      `json:"generatedAt,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type Template struct {
	ID              uuid.UUID       `json:"id"`
	TemplateName    string          `json:"templateName"`
	DocumentType    string          `json:"documentType"`
	WorkflowStep    *string         `json:"workflowStep,omitempty"`
	TemplateContent string          `json:"templateContent"`
	PromptTemplate  *string         `json:"promptTemplate,omitempty"`
	Variables       json.RawMessage `json:"variables,omitempty"`
	IsActive        bool            `json:"isActive"`
	CreatedBy       *uuid.UUID      `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
