// Package eia implements the Executive Intelligence Assistant: the per-session
// navigation context, the greeting composer, the chat widget and the
// document/chat generation dispatcher.
package eia

// Modules known to the assistant. Anything else falls back to the dashboard
// guidance entry.
const (
	ModuleDashboard     = "dashboard"
	ModuleClients       = "clients"
	ModuleReferrals     = "referrals"
	ModuleCrisis        = "crisis"
	ModuleServices      = "services"
	ModuleStaff         = "staff"
	ModuleDocumentation = "documentation"
	ModuleSOPChapters   = "sop-chapters"
	ModuleBilling       = "billing"
	ModuleCompliance    = "compliance"
	ModuleReports       = "reports"
)

type Guidance struct {
	Title string   `json:"title"`
	Tips  []string `json:"tips"`
}

var guidance = map[string]Guidance{
	ModuleDashboard: {
		Title: "Dashboard Overview",
		Tips: []string{
			"Review urgent alerts and pending tasks",
			"Check crisis events requiring follow-up",
			"Monitor authorization expirations",
		},
	},
	ModuleClients: {
		Title: "Client Management",
		Tips: []string{
			"Ensure all client demographics are complete",
			"Verify insurance information and authorization status",
			"Document any changes in risk level or placement",
		},
	},
	ModuleReferrals: {
		Title: "Admissions & Referrals",
		Tips: []string{
			"Complete initial screening within 24 hours",
			"Verify Medicaid eligibility before intake",
			"Assign appropriate QMHP-CS for assessment",
		},
	},
	ModuleCrisis: {
		Title: "Crisis Management",
		Tips: []string{
			"Document all crisis events within 1 hour",
			"Complete safety assessment and intervention plan",
			"Notify guardian/LAR and update crisis plan",
		},
	},
	ModuleServices: {
		Title: "Service Delivery",
		Tips: []string{
			"Use SOAP format for all progress notes",
			"Document service code (H2017, H2014, etc.) and units",
			"Ensure notes are completed within 24 hours of service",
		},
	},
	ModuleStaff: {
		Title: "Staff Management",
		Tips: []string{
			"Verify all credentials are current",
			"Monitor caseload capacity (max 12 clients per QMHP)",
			"Schedule monthly supervision sessions",
		},
	},
	ModuleDocumentation: {
		Title: "EIA Documentation Center",
		Tips: []string{
			"Select appropriate document type for the situation",
			"Provide detailed client context for better AI generation",
			"Review and customize generated documents before saving",
		},
	},
	ModuleSOPChapters: {
		Title: "SOP Operational Procedures",
		Tips: []string{
			"Follow step-by-step workflows for compliance",
			"Complete all required fields in each step",
			"Generate supporting documentation at each stage",
		},
	},
	ModuleBilling: {
		Title: "Billing & Claims",
		Tips: []string{
			"Submit claims within 95 days of service date",
			"Ensure service notes match billed units",
			"Follow up on denied claims within 30 days",
		},
	},
	ModuleCompliance: {
		Title: "Quality Assurance & Compliance",
		Tips: []string{
			"Complete quarterly audits for all active clients",
			"Review documentation for HHSC compliance",
			"Address any quality issues within 48 hours",
		},
	},
	ModuleReports: {
		Title: "Reports & Analytics",
		Tips: []string{
			"Review service utilization trends monthly",
			"Monitor billing metrics and revenue cycle",
			"Track client outcomes and engagement rates",
		},
	},
}

// GuidanceFor returns the guidance entry for module, or the dashboard entry
// when the module is unknown.
func GuidanceFor(module string) Guidance {
	if g, ok := guidance[module]; ok {
		return g
	}
	return guidance[ModuleDashboard]
}

// KnownModule reports whether module has its own guidance entry.
func KnownModule(module string) bool {
	_, ok := guidance[module]
	return ok
}
