package eia

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adolbicare/clinic/internal/domain/billing"
	"github.com/adolbicare/clinic/internal/domain/clients"
	"github.com/adolbicare/clinic/internal/domain/crisis"
	"github.com/adolbicare/clinic/internal/domain/dashboard"
	"github.com/adolbicare/clinic/internal/domain/delivery"
	"github.com/adolbicare/clinic/internal/domain/documents"
	"github.com/adolbicare/clinic/internal/domain/referrals"
	"github.com/adolbicare/clinic/internal/domain/staff"
	"github.com/adolbicare/clinic/internal/platform/auth"
)

// summaryWindow bounds how many rows a summary inspects. Totals always come
// from the list count, so only the per-status tallies are windowed.
const summaryWindow = 1000

const credentialWarning = 60 * 24 * time.Hour

type ClientSource interface {
	List(ctx context.Context, f clients.Filter, limit, offset int) ([]*clients.Client, int, error)
}

type ReferralSource interface {
	List(ctx context.Context, limit, offset int) ([]*referrals.Referral, int, error)
}

type CrisisSource interface {
	List(ctx context.Context, limit, offset int) ([]*crisis.Event, int, error)
}

type ServiceSource interface {
	List(ctx context.Context, limit, offset int) ([]*delivery.ServiceRecord, int, error)
}

type ClaimSource interface {
	ListClaims(ctx context.Context, limit, offset int) ([]*billing.Claim, int, error)
}

type StaffSource interface {
	List(ctx context.Context, limit, offset int) ([]*staff.Member, int, error)
}

type DocumentationSource interface {
	WorkflowStatusCounts(ctx context.Context) (map[string]int, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]*documents.Document, int, error)
}

type StatsSource interface {
	Stats(ctx context.Context) dashboard.Stats
}

// Sources are the read models a summary draws on. A nil source yields an
// empty summary for its module.
type Sources struct {
	Clients       ClientSource
	Referrals     ReferralSource
	Crisis        CrisisSource
	Services      ServiceSource
	Claims        ClaimSource
	Staff         StaffSource
	Documentation DocumentationSource
	Dashboard     StatsSource
}

// SummaryBuilder computes the context data each module page pushes to the
// assistant.
type SummaryBuilder struct {
	src Sources
	now func() time.Time
}

func NewSummaryBuilder(src Sources) *SummaryBuilder {
	return &SummaryBuilder{src: src, now: time.Now}
}

var pageTitles = map[string]string{
	ModuleDashboard:     "Dashboard",
	ModuleClients:       "Client Management",
	ModuleReferrals:     "Admissions & Referrals",
	ModuleCrisis:        "Crisis Management",
	ModuleServices:      "Service Delivery",
	ModuleStaff:         "Staff Management",
	ModuleBilling:       "Billing & Claims",
	ModuleDocumentation: "EIA Documentation Center",
	ModuleCompliance:    "Compliance & Quality",
	ModuleReports:       "Reports & Analytics",
	ModuleSOPChapters:   "SOP Chapters",
}

// PageTitle is the page label a module's screen reports.
func PageTitle(module string) string {
	if t, ok := pageTitles[module]; ok {
		return t
	}
	return pageTitles[ModuleDashboard]
}

// Summarize returns the context data for module. Modules without backing
// data, and modules whose lists are empty, summarize to an empty map.
func (b *SummaryBuilder) Summarize(ctx context.Context, module string) (map[string]any, error) {
	var (
		data map[string]any
		err  error
	)
	switch module {
	case ModuleDashboard:
		data, err = b.dashboard(ctx)
	case ModuleClients:
		data, err = b.clients(ctx)
	case ModuleReferrals:
		data, err = b.referrals(ctx)
	case ModuleCrisis:
		data, err = b.crisis(ctx)
	case ModuleServices:
		data, err = b.services(ctx)
	case ModuleStaff:
		data, err = b.staff(ctx)
	case ModuleBilling:
		data, err = b.billing(ctx)
	case ModuleDocumentation:
		data, err = b.documentation(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("summarizing %s: %w", module, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func (b *SummaryBuilder) dashboard(ctx context.Context) (map[string]any, error) {
	if b.src.Dashboard == nil {
		return nil, nil
	}
	st := b.src.Dashboard.Stats(ctx)
	data := map[string]any{
		"activeClients":       st.ActiveClients,
		"pendingReferrals":    st.PendingReferrals,
		"activeCrisis":        st.ActiveCrisis,
		"pendingClaimsAmount": st.PendingClaimsAmount,
	}

	var alerts []any
	if b.src.Crisis != nil {
		events, _, err := b.src.Crisis.List(ctx, summaryWindow, 0)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			if e.Status != crisis.StatusActive || !e.FollowUpRequired || e.FollowUpCompleted {
				continue
			}
			desc := e.CrisisType
			if e.FollowUpDueDate != nil {
				desc += " - Due " + e.FollowUpDueDate.Format("Jan 2")
			}
			alerts = append(alerts, map[string]any{"title": "Crisis Follow-up Due", "description": desc})
		}
	}
	if b.src.Referrals != nil {
		refs, _, err := b.src.Referrals.List(ctx, summaryWindow, 0)
		if err != nil {
			return nil, err
		}
		urgent := 0
		for _, r := range refs {
			if r.Status == referrals.StatusPending && r.IsUrgent() {
				urgent++
			}
		}
		data["urgentReferrals"] = urgent
		if urgent > 0 {
			alerts = append(alerts, map[string]any{
				"title":       "Urgent Referrals",
				"description": fmt.Sprintf("%d awaiting screening", urgent),
			})
		}
	}
	if len(alerts) > 0 {
		data["urgentAlerts"] = alerts
	}
	return data, nil
}

func (b *SummaryBuilder) clients(ctx context.Context) (map[string]any, error) {
	if b.src.Clients == nil {
		return nil, nil
	}
	list, total, err := b.src.Clients.List(ctx, clients.Filter{}, summaryWindow, 0)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	var active, highRisk, critical int
	for _, c := range list {
		if c.Status == clients.StatusActive {
			active++
		}
		switch c.RiskLevel {
		case clients.RiskCritical:
			critical++
			highRisk++
		case clients.RiskHigh:
			highRisk++
		}
	}
	return map[string]any{
		"totalClients":  total,
		"activeClients": active,
		"highRiskCount": highRisk,
		"criticalCount": critical,
		"recentClient":  list[0].FullName(),
	}, nil
}

func (b *SummaryBuilder) referrals(ctx context.Context) (map[string]any, error) {
	if b.src.Referrals == nil {
		return nil, nil
	}
	list, total, err := b.src.Referrals.List(ctx, summaryWindow, 0)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	var pending, urgent int
	for _, r := range list {
		if r.Status == referrals.StatusPending {
			pending++
		}
		if r.IsUrgent() {
			urgent++
		}
	}
	return map[string]any{
		"totalReferrals":   total,
		"pendingReferrals": pending,
		"urgentReferrals":  urgent,
		"recentReferral":   "Referral #" + shortID(list[0].ID),
		"needsScreening":   pending,
	}, nil
}

func (b *SummaryBuilder) crisis(ctx context.Context) (map[string]any, error) {
	if b.src.Crisis == nil {
		return nil, nil
	}
	list, total, err := b.src.Crisis.List(ctx, summaryWindow, 0)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	var active, escalated, critical int
	for _, e := range list {
		switch e.Status {
		case crisis.StatusActive:
			active++
		case crisis.StatusEscalated:
			escalated++
		}
		if e.RiskLevel == clients.RiskCritical {
			critical++
		}
	}
	return map[string]any{
		"totalCrisis":     total,
		"activeCrisis":    active,
		"escalatedCrisis": escalated,
		"criticalRisk":    critical,
		"recentCrisis":    "Crisis #" + shortID(list[0].ID),
		"needsFollowUp":   active + escalated,
	}, nil
}

func (b *SummaryBuilder) services(ctx context.Context) (map[string]any, error) {
	if b.src.Services == nil {
		return nil, nil
	}
	list, total, err := b.src.Services.List(ctx, summaryWindow, 0)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	var completed, scheduled, pendingNotes int
	for _, s := range list {
		switch s.Status {
		case delivery.StatusCompleted:
			completed++
			if s.BillingStatus == delivery.BillingPending {
				pendingNotes++
			}
		case delivery.StatusScheduled:
			scheduled++
		}
	}
	return map[string]any{
		"totalServices":      total,
		"completedServices":  completed,
		"scheduledServices":  scheduled,
		"pendingNotes":       pendingNotes,
		"recentService":      "Service #" + shortID(list[0].ID),
		"needsDocumentation": pendingNotes,
	}, nil
}

func (b *SummaryBuilder) staff(ctx context.Context) (map[string]any, error) {
	if b.src.Staff == nil {
		return nil, nil
	}
	list, total, err := b.src.Staff.List(ctx, summaryWindow, 0)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	now := b.now()
	var therapists, caseManagers, expiring int
	for _, m := range list {
		switch m.Role {
		case auth.RoleTherapist:
			therapists++
		case auth.RoleCaseManager:
			caseManagers++
		}
		if m.LicenseExpiresWithin(now, credentialWarning) {
			expiring++
		}
	}
	return map[string]any{
		"totalStaff":          total,
		"therapistCount":      therapists,
		"caseManagerCount":    caseManagers,
		"credentialsExpiring": expiring,
		"recentStaff":         list[0].DisplayName(),
	}, nil
}

func (b *SummaryBuilder) billing(ctx context.Context) (map[string]any, error) {
	if b.src.Claims == nil {
		return nil, nil
	}
	list, total, err := b.src.Claims.ListClaims(ctx, summaryWindow, 0)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	var pending, denied int
	var amount int64
	for _, c := range list {
		switch c.Status {
		case billing.StatusPending:
			pending++
		case billing.StatusDenied:
			denied++
		}
		amount += c.Amount
	}
	return map[string]any{
		"totalClaims":   total,
		"pendingClaims": pending,
		"deniedClaims":  denied,
		"totalAmount":   amount,
		"recentClaim":   "Claim #" + list[0].ClaimNumber,
		"needsReview":   pending + denied,
	}, nil
}

func (b *SummaryBuilder) documentation(ctx context.Context) (map[string]any, error) {
	if b.src.Documentation == nil {
		return nil, nil
	}
	counts, err := b.src.Documentation.WorkflowStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	_, docs, err := b.src.Documentation.ListDocuments(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 && docs == 0 {
		return nil, nil
	}
	return map[string]any{
		"totalWorkflows":      total,
		"completedWorkflows":  counts[documents.WorkflowCompleted],
		"inProgressWorkflows": counts[documents.WorkflowInProgress],
		"pendingWorkflows":    counts[documents.WorkflowNotStarted],
		"documentsGenerated":  docs,
	}, nil
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
