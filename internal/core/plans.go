package core

import (
	"summarist-backend-go/internal/config"
	"summarist-backend-go/internal/models"
)

// PlanTable is the server-side catalog of purchasable plans. Checkout
// requests are validated against it so the client can never start a
// session for an arbitrary price ID.
type PlanTable struct {
	plans []models.Plan
	byID  map[string]models.Plan
}

// NewPlanTable builds the plan catalog from the configured Stripe price
// IDs. The yearly plan carries the configured trial period, the monthly
// plan has none.
func NewPlanTable(cfg *config.Config) *PlanTable {
	plans := []models.Plan{
		{
			ID:          1,
			Name:        "Premium Monthly",
			Description: "Unlimited access to every summary, billed monthly.",
			Price:       "$9.99/month",
			PriceID:     cfg.StripePriceIDMonthly,
		},
		{
			ID:              2,
			Name:            "Premium Yearly",
			Description:     "Unlimited access to every summary, billed yearly.",
			Price:           "$99.99/year",
			PriceID:         cfg.StripePriceIDYearly,
			TrialPeriodDays: cfg.TrialPeriodDays,
		},
	}
	byID := make(map[string]models.Plan, len(plans))
	for _, p := range plans {
		byID[p.PriceID] = p
	}
	return &PlanTable{plans: plans, byID: byID}
}

// List returns the plans in display order.
func (t *PlanTable) List() []models.Plan {
	out := make([]models.Plan, len(t.plans))
	copy(out, t.plans)
	return out
}

// Lookup returns the plan sold under priceID.
func (t *PlanTable) Lookup(priceID string) (models.Plan, bool) {
	p, ok := t.byID[priceID]
	return p, ok
}
