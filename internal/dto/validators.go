package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// RegisterValidators adds the domain-specific binding tags:
// slug, integration_source, org_role and plan_tier.
func RegisterValidators(v *validator.Validate) error {
	validators := map[string]validator.Func{
		"slug": func(fl validator.FieldLevel) bool {
			return domain.ValidSlug(fl.Field().String())
		},
		"integration_source": func(fl validator.FieldLevel) bool {
			return domain.Source(fl.Field().String()).Valid()
		},
		"org_role": func(fl validator.FieldLevel) bool {
			return domain.OrgRole(fl.Field().String()).Valid()
		},
		"plan_tier": func(fl validator.FieldLevel) bool {
			return domain.PlanTier(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
