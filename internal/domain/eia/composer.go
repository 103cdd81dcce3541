package eia

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type renderer func(page string, f fields) string

var renderers = map[string]renderer{
	ModuleDashboard:     renderDashboard,
	ModuleClients:       renderClients,
	ModuleServices:      renderServices,
	ModuleStaff:         renderStaff,
	ModuleBilling:       renderBilling,
	ModuleCompliance:    renderCompliance,
	ModuleReports:       renderReports,
	ModuleDocumentation: renderDocumentation,
	ModuleReferrals:     renderReferrals,
	ModuleCrisis:        renderCrisis,
}

// Compose renders the assistant greeting for a module, page and summary data.
// Output depends only on its inputs. Fields missing from data are left out.
func Compose(module, page string, data map[string]any) string {
	f := fields(data)
	if r, ok := renderers[module]; ok {
		return r(page, f)
	}
	if module == ModuleSOPChapters && f.truthy("workflowStep") && f.truthy("currentStep") {
		return renderWorkflowStep(f)
	}
	return renderDefault(module, page, f)
}

// NavigationNotice is the short message appended when the user moves to a
// new page while the transcript already has content.
func NavigationNotice(module, page string) string {
	return fmt.Sprintf("📍 You've navigated to **%s**. %s", page, GuidanceFor(module).Tips[0])
}

func renderDashboard(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 Hello! I'm your AI assistant for Adolbi Care operations. I can help you with:\n\n")
	b.WriteString("• Client intake procedures\n")
	b.WriteString("• SOP guidance and compliance\n")
	b.WriteString("• Staff scheduling optimization\n")
	b.WriteString("• Document management\n")
	b.WriteString("• Regulatory requirements\n\n")

	if n := f.count("pendingReferrals"); n > 0 {
		fmt.Fprintf(&b, "🔔 **I notice you have %s pending intake%s.**", f.text("pendingReferrals"), plural(n, "s", ""))
		if u := f.count("urgentReferrals"); u > 0 {
			fmt.Fprintf(&b, " %s %s marked urgent.", f.text("urgentReferrals"), plural(u, "are", "is"))
		}
		b.WriteString(" Would you like me to help prioritize them based on urgency and available staff capacity?\n\n")
	}

	if alerts := f.list("urgentAlerts"); len(alerts) > 0 {
		b.WriteString("⚠️ **Urgent Alerts:**\n")
		for _, a := range alerts {
			title, desc := a.text("title"), a.text("description")
			switch {
			case title != "" && desc != "":
				fmt.Fprintf(&b, "• %s: %s\n", title, desc)
			case title != "":
				fmt.Fprintf(&b, "• %s\n", title)
			case desc != "":
				fmt.Fprintf(&b, "• %s\n", desc)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("What would you like assistance with today?")
	return b.String()
}

func renderClients(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 I'm your **Client Management Assistant**.\n\n")

	if f.has("totalClients") {
		b.WriteString("**Current Status:**\n")
		fmt.Fprintf(&b, "• Total Clients: %s (%s active)\n", f.text("totalClients"), f.textOr("activeClients", "0"))
		if n := f.count("highRiskCount"); n > 0 {
			fmt.Fprintf(&b, "• High Priority: %s client%s need%s immediate attention\n",
				f.text("highRiskCount"), plural(n, "s", ""), plural(n, "", "s"))
		}
		if f.truthy("recentClient") {
			fmt.Fprintf(&b, "• Recently viewed: %s\n", f.text("recentClient"))
		}
		b.WriteString("\n")
	}

	recommend(&b,
		"Review clients with overdue appointments",
		"Update insurance authorizations as needed",
		"Complete pending assessments")
	b.WriteString("How can I assist with client management today?")
	return b.String()
}

func renderServices(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 I'm your **Service Delivery Assistant**.\n\n")

	if f.has("totalServices") {
		b.WriteString("**Current Status:**\n")
		fmt.Fprintf(&b, "• Total Services: %s\n", f.text("totalServices"))
		fmt.Fprintf(&b, "• Completed: %s\n", f.textOr("completedServices", "0"))
		fmt.Fprintf(&b, "• Scheduled: %s\n", f.textOr("scheduledServices", "0"))
		if n := f.count("pendingNotes"); n > 0 {
			fmt.Fprintf(&b, "• ⚠️ Pending Notes: %s service%s need%s documentation\n",
				f.text("pendingNotes"), plural(n, "s", ""), plural(n, "", "s"))
		}
		b.WriteString("\n")
	}

	recommend(&b,
		"Complete progress notes within 24 hours",
		"Use SOAP format for all documentation",
		"Verify service codes and units")
	b.WriteString("How can I assist with service delivery today?")
	return b.String()
}

func renderStaff(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 I'm your **Staff Management Assistant**.\n\n")

	if f.has("totalStaff") {
		b.WriteString("**Current Status:**\n")
		fmt.Fprintf(&b, "• Total Staff: %s\n", f.text("totalStaff"))
		fmt.Fprintf(&b, "• Therapists: %s\n", f.textOr("therapistCount", "0"))
		fmt.Fprintf(&b, "• Case Managers: %s\n", f.textOr("caseManagerCount", "0"))
		if n := f.count("credentialsExpiring"); n > 0 {
			fmt.Fprintf(&b, "• ⚠️ Credentials Expiring: %s staff member%s\n", f.text("credentialsExpiring"), plural(n, "s", ""))
		}
		if n := f.count("supervisionDue"); n > 0 {
			fmt.Fprintf(&b, "• 📅 Supervision Due: %s session%s\n", f.text("supervisionDue"), plural(n, "s", ""))
		}
		b.WriteString("\n")
	}

	recommend(&b,
		"Review expiring credentials and schedule renewals",
		"Schedule monthly supervision sessions",
		"Monitor caseload capacity")
	b.WriteString("How can I assist with staff management today?")
	return b.String()
}

func renderBilling(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 I'm your **Billing & Claims Assistant**.\n\n")

	if f.has("totalClaims") {
		b.WriteString("**Current Status:**\n")
		fmt.Fprintf(&b, "• Total Claims: %s\n", f.text("totalClaims"))
		fmt.Fprintf(&b, "• Pending: %s\n", f.textOr("pendingClaims", "0"))
		if n := f.count("deniedClaims"); n > 0 {
			fmt.Fprintf(&b, "• ⚠️ Denied: %s claim%s need%s attention\n",
				f.text("deniedClaims"), plural(n, "s", ""), plural(n, "", "s"))
		}
		if f.truthy("totalAmount") {
			amount := f.text("totalAmount")
			if v, ok := f.num("totalAmount"); ok {
				amount = formatGrouped(v)
			}
			fmt.Fprintf(&b, "• Total Amount: $%s\n", amount)
		}
		b.WriteString("\n")
	}

	recommend(&b,
		"Review denied claims and prepare appeals",
		"Submit pending claims within 95 days",
		"Verify service documentation matches billing")
	b.WriteString("How can I assist with billing today?")
	return b.String()
}

func renderCompliance(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 I'm your **Compliance & Quality Assurance Assistant**.\n\n")

	var status []string
	if f.has("qualityScore") {
		status = append(status, "• Quality Score: "+f.text("qualityScore"))
	}
	if f.has("documentationCompliance") {
		status = append(status, "• Documentation Compliance: "+f.text("documentationCompliance")+"%")
	}
	if f.has("staffCertificationsCurrent") {
		status = append(status, "• Staff Certifications: "+f.text("staffCertificationsCurrent")+"% current")
	}
	if f.count("pendingReviews") > 0 {
		status = append(status, "• 📋 Pending Reviews: "+f.text("pendingReviews"))
	}
	if f.count("issuesIdentified") > 0 {
		status = append(status, "• ⚠️ Issues Identified: "+f.text("issuesIdentified")+" requiring attention")
	}
	statusBlock(&b, status)

	recommend(&b,
		"Complete pending quality reviews",
		"Address identified issues within 48 hours",
		"Maintain HHSC compliance standards")
	b.WriteString("How can I assist with compliance today?")
	return b.String()
}

func renderReports(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 I'm your **Reports & Analytics Assistant**.\n\n")

	var status []string
	for _, line := range []struct{ key, label string }{
		{"availableReports", "Available Reports"},
		{"scheduledReports", "Scheduled Reports"},
		{"recentlyGenerated", "Recently Generated"},
		{"dataFreshness", "Data Freshness"},
	} {
		if f.has(line.key) {
			status = append(status, "• "+line.label+": "+f.text(line.key))
		}
	}
	statusBlock(&b, status)

	recommend(&b,
		"Review monthly service utilization trends",
		"Monitor billing metrics and revenue cycle",
		"Track client outcomes and engagement")
	b.WriteString("How can I assist with reports today?")
	return b.String()
}

func renderDocumentation(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 I'm your **Documentation Assistant**.\n\n")

	var status []string
	for _, line := range []struct{ key, label string }{
		{"totalWorkflows", "Total Workflows"},
		{"completedWorkflows", "Completed"},
		{"inProgressWorkflows", "In Progress"},
		{"documentsGenerated", "Documents Generated"},
	} {
		if f.has(line.key) {
			status = append(status, "• "+line.label+": "+f.text(line.key))
		}
	}
	statusBlock(&b, status)

	recommend(&b,
		"Select appropriate document type for your needs",
		"Provide detailed client context for better AI generation",
		"Review and customize generated documents")
	b.WriteString("How can I assist with documentation today?")
	return b.String()
}

func renderReferrals(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 I'm your **Referrals & Intake Assistant**.\n\n")

	if f.has("totalReferrals") {
		b.WriteString("**Current Status:**\n")
		fmt.Fprintf(&b, "• Total Referrals: %s\n", f.text("totalReferrals"))
		fmt.Fprintf(&b, "• Pending: %s\n", f.textOr("pendingReferrals", "0"))
		if n := f.count("urgentReferrals"); n > 0 {
			fmt.Fprintf(&b, "• ⚠️ Urgent: %s referral%s\n", f.text("urgentReferrals"), plural(n, "s", ""))
		}
		b.WriteString("\n")
	}

	recommend(&b,
		"Complete initial screening within 24 hours",
		"Verify Medicaid eligibility before intake",
		"Prioritize urgent referrals first")
	b.WriteString("How can I assist with referrals today?")
	return b.String()
}

func renderCrisis(_ string, f fields) string {
	var b strings.Builder
	b.WriteString("👋 I'm your **Crisis Management Assistant**.\n\n")

	if f.has("totalCrisis") {
		b.WriteString("**Current Status:**\n")
		fmt.Fprintf(&b, "• Total Crisis Events: %s\n", f.text("totalCrisis"))
		fmt.Fprintf(&b, "• Active: %s\n", f.textOr("activeCrisis", "0"))
		fmt.Fprintf(&b, "• Escalated: %s\n", f.textOr("escalatedCrisis", "0"))
		if n := f.count("criticalRisk"); n > 0 {
			fmt.Fprintf(&b, "• ⚠️ Critical Risk: %s event%s\n", f.text("criticalRisk"), plural(n, "s", ""))
		}
		b.WriteString("\n")
	}

	recommend(&b,
		"Document all crisis events within 1 hour",
		"Complete safety assessment immediately",
		"Notify guardian/LAR of critical events")
	b.WriteString("How can I assist with crisis management today?")
	return b.String()
}

func renderWorkflowStep(f fields) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👋 I'm monitoring the **%s** process.\n\n", f.textOr("workflowName", "workflow"))

	fmt.Fprintf(&b, "**Progress:** Step %s", f.text("currentStep"))
	if f.has("totalSteps") {
		fmt.Fprintf(&b, " of %s", f.text("totalSteps"))
	}
	if f.has("stepName") {
		fmt.Fprintf(&b, " - %s", f.text("stepName"))
	}
	b.WriteString("\n")
	if f.has("completionPercentage") {
		fmt.Fprintf(&b, "**Completion:** %s%% complete\n", f.text("completionPercentage"))
	}
	if f.truthy("requiredFieldsRemaining") {
		fmt.Fprintf(&b, "**Required Fields:** %s remaining\n", f.text("requiredFieldsRemaining"))
	}

	fmt.Fprintf(&b, "\n**%s recommendations:**\n", f.textOr("stepName", "Step"))
	for _, tip := range GuidanceFor(ModuleSOPChapters).Tips {
		fmt.Fprintf(&b, "• %s\n", tip)
	}
	b.WriteString("\nHow can I help with this step?")
	return b.String()
}

func renderDefault(module, page string, f fields) string {
	g := GuidanceFor(module)
	var b strings.Builder
	fmt.Fprintf(&b, "👋 Hi! I'm your EIA assistant. I see you're in **%s**.\n\n", page)

	if len(f) > 0 {
		b.WriteString("**Current Context:**\n")
		for _, line := range []struct{ key, label string }{
			{"totalClients", "Total Clients"},
			{"activeClients", "Active Clients"},
			{"highRiskCount", "High Risk"},
			{"recentClient", "Viewing"},
		} {
			if f.truthy(line.key) {
				fmt.Fprintf(&b, "• %s: %s\n", line.label, f.text(line.key))
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**%s**\n\n", g.Title)
	b.WriteString("**Quick Tips:**\n")
	for i, tip := range g.Tips {
		fmt.Fprintf(&b, "%d. %s\n", i+1, tip)
	}
	b.WriteString("\nHow can I help you today?")
	return b.String()
}

func recommend(b *strings.Builder, items ...string) {
	b.WriteString("**Recommendations:**\n")
	for _, item := range items {
		fmt.Fprintf(b, "• %s\n", item)
	}
	b.WriteString("\n")
}

func statusBlock(b *strings.Builder, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("**Current Status:**\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// plural returns many unless n is exactly one.
func plural(n float64, many, one string) string {
	if n == 1 {
		return one
	}
	return many
}

// fields reads summary values the way they arrive from JSON or from the
// summary builder: numbers may be float64 or any Go integer type.
type fields map[string]any

func (f fields) has(key string) bool {
	v, ok := f[key]
	return ok && !isNil(v)
}

// isNil reports untyped nil and nil pointers, maps, slices and interfaces
// stored in the map.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func (f fields) num(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	}
	return 0, false
}

// count is the numeric value of key, or zero when absent or not a number.
func (f fields) count(key string) float64 {
	n, _ := f.num(key)
	return n
}

func (f fields) truthy(key string) bool {
	v, ok := f[key]
	if !ok || isNil(v) {
		return false
	}
	if n, ok := f.num(key); ok {
		return n != 0 && !math.IsNaN(n)
	}
	switch v := v.(type) {
	case bool:
		return v
	case string:
		return v != ""
	}
	return true
}

func (f fields) text(key string) string {
	v, ok := f[key]
	if !ok || isNil(v) {
		return ""
	}
	if n, ok := f.num(key); ok {
		return formatNumber(n)
	}
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}

// textOr renders key when it is truthy, else fallback.
func (f fields) textOr(key, fallback string) string {
	if f.truthy(key) {
		return f.text(key)
	}
	return fallback
}

func (f fields) list(key string) []fields {
	var out []fields
	switch v := f[key].(type) {
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, fields(m))
			}
		}
	case []map[string]any:
		for _, m := range v {
			out = append(out, fields(m))
		}
	}
	return out
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var groupPrinter = message.NewPrinter(language.English)

// formatGrouped renders v with thousands separators and at most three
// fraction digits.
func formatGrouped(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	// From 1e15 up a float64 holds no fraction digits, and past 2^63 the
	// integer path below would overflow.
	if math.Abs(v) >= 1e15 {
		return groupPrinter.Sprintf("%.0f", v)
	}
	rounded := math.Round(v*1000) / 1000
	whole := math.Trunc(rounded)
	out := groupPrinter.Sprintf("%d", int64(whole))
	frac := strconv.FormatFloat(math.Abs(rounded-whole), 'f', 3, 64)
	frac = strings.TrimRight(strings.TrimPrefix(frac, "0"), "0")
	if frac != "" && frac != "." {
		if whole == 0 && rounded < 0 {
			out = "-" + out
		}
		out += frac
	}
	return out
}
