package eia

import (
	"strconv"
	"strings"

	"github.com/adolbicare/clinic/internal/platform/apperr"
	"github.com/adolbicare/clinic/internal/platform/llm"
)

const documentSystemPrompt = "You are an expert behavioral health documentation specialist. Generate professional, HIPAA-compliant clinical documents that meet regulatory standards. Use clear, objective language and proper clinical terminology."

const chatSystemPrompt = `You are EIA (Executive Intelligence Assistant), an AI assistant for Adolbi Care's MHRS/MHTCM behavioral health platform.

Current Context:
- Module: {{module}}
- Page: {{page}}

You provide expert guidance on:
- MHRS (Mental Health Rehabilitative Services) and MHTCM (Mental Health Targeted Case Management)
- Clinical documentation and compliance
- HHSC regulations and best practices
- Service codes (H2017, H2014, H2011, H0034, MHTCM)
- Crisis management and safety planning
- Quality assurance and audit requirements

Provide concise, actionable responses tailored to the user's current context.`

const assistantSystemPrompt = `You are the Executive Intelligence Assistant (EIA) for Adolbi Care, a behavioral health platform. You help staff with:
- Clinical documentation guidance
- MHRS/MHTCM service protocols
- Compliance and regulatory questions
- Workflow assistance
- Best practices for behavioral health services

Provide clear, professional, and actionable guidance. Reference specific procedures when relevant.`

// Document types the dispatcher can generate.
const (
	DocIntakeAssessment = "intake_assessment"
	DocProgressNote     = "progress_note"
	DocTreatmentPlan    = "treatment_plan"
	DocIncidentReport   = "incident_report"
	DocDischargeSummary = "discharge_summary"
	DocCrisisPlan       = "crisis_plan"
	DocServiceNote      = "service_note"
)

type ClientData struct {
	Name        string `json:"name,omitempty"`
	Age         *int   `json:"age,omitempty"`
	Diagnosis   string `json:"diagnosis,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
}

type DocumentRequest struct {
	DocumentType   string      `json:"documentType"`
	ClientData     *ClientData `json:"clientData,omitempty"`
	AdditionalInfo string      `json:"additionalInfo,omitempty"`
}

type clientField int

const (
	fieldName clientField = iota
	fieldAge
	fieldDiagnosis
	fieldServiceType
)

func (c *ClientData) value(f clientField) string {
	switch f {
	case fieldName:
		return c.Name
	case fieldAge:
		if c.Age != nil && *c.Age != 0 {
			return strconv.Itoa(*c.Age)
		}
	case fieldDiagnosis:
		return c.Diagnosis
	case fieldServiceType:
		return c.ServiceType
	}
	return ""
}

// clientLine renders one client field, or fallback when the field is empty.
type clientLine struct {
	label    string
	field    clientField
	fallback string
}

// documentPrompt is the data behind one document type's user prompt:
// intro, client lines (only when client data is supplied), the labelled
// additional info, then the required sections.
type documentPrompt struct {
	intro           string
	client          []clientLine
	additionalLabel string
	sections        string
}

var documentPrompts = map[string]documentPrompt{
	DocIntakeAssessment: {
		intro: "Generate a comprehensive intake assessment for a behavioral health client with the following information:",
		client: []clientLine{
			{"Client Name", fieldName, "Not provided"},
			{"Age", fieldAge, "Not provided"},
			{"Diagnosis", fieldDiagnosis, "Not provided"},
		},
		additionalLabel: "Additional Information",
		sections: `Please include:
1. Presenting Problem
2. Mental Status Examination
3. Risk Assessment
4. Diagnostic Impression
5. Treatment Recommendations

Format the document professionally with clear sections.`,
	},
	DocProgressNote: {
		intro: "Generate a SOAP (Subjective, Objective, Assessment, Plan) progress note for a behavioral health session:",
		client: []clientLine{
			{"Client", fieldName, "Client"},
			{"Service Type", fieldServiceType, "MHRS"},
		},
		additionalLabel: "Session Details",
		sections: `Include:
- Subjective: Client's reported mood, concerns, progress
- Objective: Observed behavior, appearance, affect
- Assessment: Clinical impression, progress toward goals
- Plan: Next steps, interventions, follow-up`,
	},
	DocTreatmentPlan: {
		intro: "Generate a comprehensive treatment plan for:",
		client: []clientLine{
			{"Client", fieldName, "Client"},
			{"Diagnosis", fieldDiagnosis, "Not specified"},
		},
		additionalLabel: "Background",
		sections: `Include:
1. Problem Statement
2. Long-term Goal
3. Short-term Objectives (3-4 measurable objectives)
4. Interventions and Services
5. Target Dates
6. Responsible Staff`,
	},
	DocIncidentReport: {
		intro:           "Generate a detailed incident report:",
		client:          []clientLine{{"Client Involved", fieldName, "Client"}},
		additionalLabel: "Incident Details",
		sections: `Include:
1. Date, Time, and Location
2. Description of Incident
3. Individuals Involved
4. Actions Taken
5. Outcome
6. Follow-up Required`,
	},
	DocDischargeSummary: {
		intro: "Generate a discharge summary:",
		client: []clientLine{
			{"Client", fieldName, "Client"},
			{"Diagnosis", fieldDiagnosis, "Not specified"},
		},
		additionalLabel: "Treatment Summary",
		sections: `Include:
1. Reason for Discharge
2. Treatment Summary
3. Progress Achieved
4. Current Status
5. Aftercare Recommendations
6. Follow-up Plan`,
	},
	DocCrisisPlan: {
		intro:           "Generate a crisis safety plan:",
		client:          []clientLine{{"Client", fieldName, "Client"}},
		additionalLabel: "Crisis History",
		sections: `Include:
1. Warning Signs
2. Coping Strategies
3. Support Contacts
4. Emergency Resources
5. Professional Contacts
6. Making Environment Safe`,
	},
	DocServiceNote: {
		intro: "Generate a service delivery note:",
		client: []clientLine{
			{"Client", fieldName, "Client"},
			{"Service", fieldServiceType, "MHRS"},
		},
		additionalLabel: "Service Details",
		sections: `Include:
1. Service Date and Duration
2. Service Location
3. Activities and Interventions
4. Client Response
5. Progress Toward Goals
6. Next Session Plan`,
	},
}

// DocumentTypes lists the supported document types in a stable order.
func DocumentTypes() []string {
	return []string{DocIntakeAssessment, DocProgressNote, DocTreatmentPlan, DocIncidentReport,
		DocDischargeSummary, DocCrisisPlan, DocServiceNote}
}

func (p documentPrompt) render(req DocumentRequest) string {
	var client string
	if req.ClientData != nil {
		lines := make([]string, 0, len(p.client))
		for _, l := range p.client {
			v := req.ClientData.value(l.field)
			if v == "" {
				v = l.fallback
			}
			lines = append(lines, l.label+": "+v)
		}
		client = strings.Join(lines, "\n")
	}
	var additional string
	if req.AdditionalInfo != "" {
		additional = p.additionalLabel + ": " + req.AdditionalInfo
	}
	return p.intro + "\n" + client + "\n" + additional + "\n\n" + p.sections
}

// BuildDocumentPrompt returns the system and user messages for req.
func BuildDocumentPrompt(req DocumentRequest) ([]llm.Message, error) {
	p, ok := documentPrompts[req.DocumentType]
	if !ok {
		return nil, apperr.Invalid("unsupported documentType: %q", req.DocumentType)
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: documentSystemPrompt},
		{Role: llm.RoleUser, Content: p.render(req)},
	}, nil
}

// BuildChatPrompt frames message with the caller's module and page. Missing
// values read "unknown".
func BuildChatPrompt(message string, pageContext map[string]any) []llm.Message {
	f := fields(pageContext)
	system := strings.NewReplacer(
		"{{module}}", f.textOr("module", "unknown"),
		"{{page}}", f.textOr("page", "unknown"),
	).Replace(chatSystemPrompt)
	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: message},
	}
}

// BuildAssistantPrompt adds contextText as a second system message when set.
func BuildAssistantPrompt(message, contextText string) []llm.Message {
	msgs := []llm.Message{{Role: llm.RoleSystem, Content: assistantSystemPrompt}}
	if contextText != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: "Context: " + contextText})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
}
