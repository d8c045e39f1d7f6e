package domain

import "time"

// PlanTier is the billing tier of an organization.
type PlanTier string

const (
	PlanStarter      PlanTier = "starter"
	PlanProfessional PlanTier = "professional"
	PlanAgency       PlanTier = "agency"
	PlanEnterprise   PlanTier = "enterprise"
)

// Valid reports whether p is one of the known plan tiers.
func (p PlanTier) Valid() bool {
	switch p {
	case PlanStarter, PlanProfessional, PlanAgency, PlanEnterprise:
		return true
	}
	return false
}

// Organization is the tenant boundary. Everything else hangs off it and is
// deleted with it.
type Organization struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Slug             string    `json:"slug" db:"slug"` // globally unique
	PlanTier         PlanTier  `json:"planTier" db:"plan_tier"`
	FeatureFlags     JSONMap   `json:"featureFlags" db:"feature_flags"`
	WhiteLabelConfig JSONMap   `json:"whiteLabelConfig" db:"white_label_config"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// FeatureEnabled reports whether the named flag is set to true for the org.
// Missing or non-boolean flags are off.
func (o Organization) FeatureEnabled(flag string) bool {
	v, ok := o.FeatureFlags[flag].(bool)
	return ok && v
}

// OrganizationUpdate carries the mutable, non-billing fields of an organization.
// Nil fields are left untouched.
type OrganizationUpdate struct {
	Name             *string
	FeatureFlags     JSONMap
	WhiteLabelConfig JSONMap
}
