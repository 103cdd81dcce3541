package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/adolbicare/clinic/internal/config"
	"github.com/adolbicare/clinic/internal/domain/billing"
	"github.com/adolbicare/clinic/internal/domain/clients"
	"github.com/adolbicare/clinic/internal/domain/crisis"
	"github.com/adolbicare/clinic/internal/domain/delivery"
	"github.com/adolbicare/clinic/internal/domain/documents"
	"github.com/adolbicare/clinic/internal/domain/eia"
	"github.com/adolbicare/clinic/internal/domain/referrals"
	"github.com/adolbicare/clinic/internal/domain/staff"
	"github.com/adolbicare/clinic/internal/platform/auth"
	"github.com/adolbicare/clinic/internal/platform/db"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo clients, referrals, crisis events, services and claims",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := seed(ctx, pool, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Printf("Seeded %d record(s).\n", n)
			return nil
		},
	}
}

type seedClient struct {
	first, last, dob, gender, risk, diagnosis, guardian, relation, medicaid string
}

var demoClients = []seedClient{
	{"Emma", "Johnson", "2010-03-15", "Female", clients.RiskMedium, "F41.1 - Generalized Anxiety Disorder", "Sarah Johnson", "Mother", "IL123456789"},
	{"Michael", "Chen", "2008-07-22", "Male", clients.RiskHigh, "F32.2 - Major Depressive Disorder, severe", "Linda Chen", "Mother", "IL987654321"},
	{"Sophia", "Rodriguez", "2012-11-08", "Female", clients.RiskLow, "F90.0 - ADHD, predominantly inattentive", "Carlos Rodriguez", "Father", "IL456789123"},
	{"James", "Williams", "2009-05-30", "Male", clients.RiskCritical, "F43.10 - Post-traumatic Stress Disorder", "DCFS Caseworker", "Guardian", "IL321654987"},
	{"Olivia", "Martinez", "2011-09-12", "Female", clients.RiskMedium, "F50.9 - Eating Disorder, unspecified", "Maria Martinez", "Mother", "IL789123456"},
}

// seed writes the demo data set in one transaction and returns the number
// of rows created.
func seed(ctx context.Context, pool *pgxpool.Pool, now time.Time) (int, error) {
	clientRepo := clients.NewRepoPG(pool)
	referralRepo := referrals.NewRepoPG(pool)
	crisisRepo := crisis.NewRepoPG(pool)
	serviceRepo := delivery.NewRepoPG(pool)
	claimRepo := billing.NewClaimRepoPG(pool)
	staffRepo := staff.NewRepoPG(pool)
	templateRepo := documents.NewTemplateRepoPG(pool)

	count := 0
	err := db.WithTx(ctx, pool, func(ctx context.Context) error {
		therapist := &staff.Member{
			ExternalID:        ptr("seed-therapist"),
			Name:              ptr("Dana Ortiz"),
			Email:             ptr("dana.ortiz@adolbicare.example"),
			Role:              auth.RoleTherapist,
			Active:            true,
			Credentials:       ptr("LCPC"),
			LicenseNumber:     ptr("180-012345"),
			LicenseExpiration: ptr(now.AddDate(0, 0, 45)),
		}
		manager := &staff.Member{
			ExternalID: ptr("seed-case-manager"),
			Name:       ptr("Marcus Hill"),
			Email:      ptr("marcus.hill@adolbicare.example"),
			Role:       auth.RoleCaseManager,
			Active:     true,
		}
		for _, m := range []*staff.Member{therapist, manager} {
			if err := staffRepo.Upsert(ctx, m); err != nil {
				return fmt.Errorf("staff %s: %w", *m.Name, err)
			}
			count++
		}

		seeded := make([]*clients.Client, 0, len(demoClients))
		for _, sc := range demoClients {
			dob, err := time.Parse("2006-01-02", sc.dob)
			if err != nil {
				return err
			}
			c := &clients.Client{
				FirstName:            sc.first,
				LastName:             sc.last,
				DateOfBirth:          &dob,
				Gender:               ptr(sc.gender),
				City:                 ptr("Springfield"),
				State:                ptr("IL"),
				GuardianName:         ptr(sc.guardian),
				GuardianRelationship: ptr(sc.relation),
				MedicaidID:           ptr(sc.medicaid),
				InsuranceProvider:    ptr("Illinois Medicaid"),
				PrimaryDiagnosis:     ptr(sc.diagnosis),
				RiskLevel:            sc.risk,
				Status:               clients.StatusActive,
				AdmissionDate:        ptr(now.AddDate(0, -3, 0)),
			}
			if err := clientRepo.Create(ctx, c); err != nil {
				return fmt.Errorf("client %s %s: %w", sc.first, sc.last, err)
			}
			seeded = append(seeded, c)
			count++
		}

		refs := []*referrals.Referral{
			{ClientID: &seeded[0].ID, ReferralSource: ptr("School Counselor"), UrgencyLevel: referrals.UrgencyRoutine, Status: referrals.StatusAccepted},
			{ClientID: &seeded[1].ID, ReferralSource: ptr("Primary Care Physician"), UrgencyLevel: referrals.UrgencyUrgent, Status: referrals.StatusPending},
			{ClientID: &seeded[3].ID, ReferralSource: ptr("DCFS"), UrgencyLevel: referrals.UrgencyEmergency, Status: referrals.StatusPending},
			{ReferralSource: ptr("Community Mental Health Center"), UrgencyLevel: referrals.UrgencyRoutine, Status: referrals.StatusPending},
		}
		for _, r := range refs {
			r.ReferralDate = now.AddDate(0, 0, -7)
			r.AssignedTo = &therapist.ID
			if err := referralRepo.Create(ctx, r); err != nil {
				return fmt.Errorf("referral: %w", err)
			}
			count++
		}

		events := []*crisis.Event{
			{
				ClientID: seeded[3].ID, CrisisType: "Self-harm incident", RiskLevel: clients.RiskHigh,
				Location: ptr("School"), InterventionType: ptr("Safety planning"),
				FollowUpRequired: true, FollowUpDueDate: ptr(now.AddDate(0, 0, 2)), Status: crisis.StatusActive,
			},
			{
				ClientID: seeded[1].ID, CrisisType: "Aggressive behavior", RiskLevel: clients.RiskMedium,
				Location: ptr("Home"), InterventionType: ptr("De-escalation"), Status: crisis.StatusResolved,
			},
			{
				ClientID: seeded[0].ID, CrisisType: "Anxiety attack", RiskLevel: clients.RiskLow,
				Location: ptr("Clinic"), InterventionType: ptr("Grounding techniques"), Status: crisis.StatusResolved,
			},
		}
		for _, e := range events {
			e.EventDate = now.AddDate(0, 0, -3)
			e.RespondedBy = &therapist.ID
			if err := crisisRepo.Create(ctx, e); err != nil {
				return fmt.Errorf("crisis event: %w", err)
			}
			count++
		}

		services := []struct {
			client      *clients.Client
			serviceType string
			rate        int
			status      string
		}{
			{seeded[0], "Individual Therapy", 150, delivery.StatusCompleted},
			{seeded[1], "Family Therapy", 200, delivery.StatusCompleted},
			{seeded[2], "Group Therapy", 100, delivery.StatusScheduled},
			{seeded[3], "Psychiatric Evaluation", 350, delivery.StatusCompleted},
		}
		for i, s := range services {
			rec := &delivery.ServiceRecord{
				ClientID:               s.client.ID,
				ProviderID:             &therapist.ID,
				ServiceDate:            now.AddDate(0, 0, -i-1),
				ServiceType:            s.serviceType,
				Units:                  ptr(1),
				Rate:                   ptr(s.rate),
				TotalAmount:            ptr(s.rate),
				BillingStatus:          delivery.BillingPending,
				DocumentationCompleted: s.status == delivery.StatusCompleted && i != 1,
				ServiceLocation:        ptr("Office"),
				Status:                 s.status,
			}
			if err := serviceRepo.Create(ctx, rec); err != nil {
				return fmt.Errorf("service %s: %w", s.serviceType, err)
			}
			count++

			if rec.Status != delivery.StatusCompleted {
				continue
			}
			claim := &billing.Claim{
				ClientID:    rec.ClientID,
				ServiceID:   &rec.ID,
				ClaimNumber: fmt.Sprintf("CLM-%d-%03d", now.Year(), i+1),
				ClaimDate:   ptr(now),
				ServiceDate: rec.ServiceDate,
				Amount:      int64(s.rate),
				Payer:       "Illinois Medicaid",
				Status:      billing.StatusPending,
			}
			if i == 1 {
				claim.Status = billing.StatusDenied
				claim.DenialDate = ptr(now)
				claim.DenialReason = ptr("Missing documentation")
			}
			if err := claimRepo.Create(ctx, claim); err != nil {
				return fmt.Errorf("claim %s: %w", claim.ClaimNumber, err)
			}
			count++
		}

		for _, typ := range eia.DocumentTypes() {
			t := &documents.Template{
				TemplateName:    templateName(typ),
				DocumentType:    typ,
				TemplateContent: "Generated by EIA from client data.",
				IsActive:        true,
				CreatedBy:       &therapist.ID,
			}
			if err := templateRepo.Create(ctx, t); err != nil {
				return fmt.Errorf("template %s: %w", typ, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

var titleCase = cases.Title(language.English)

// templateName turns "treatment_plan" into "Treatment Plan".
func templateName(docType string) string {
	return titleCase.String(strings.ReplaceAll(docType, "_", " "))
}

func ptr[T any](v T) *T { return &v }
