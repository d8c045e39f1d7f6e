package pgsql

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organizations.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationSelectQuery = `
SELECT
	o.id, o.name, o.slug, o.plan_tier::text AS plan_tier, o.feature_flags,
	o.white_label_config, o.created_at, o.updated_at
FROM organizations o
`

func (r *PgxOrganizationRepository) getOrganizations(ctx context.Context, filterQuery string, args ...any) ([]domain.Organization, error) {
	rows, err := r.Pool.Query(ctx, organizationSelectQuery+filterQuery, args...)
	if err != nil {
		if isMalformedID(err) {
			return []domain.Organization{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query organizations", err)
	}
	orgs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Organization])
	if err != nil {
		if isMalformedID(err) {
			return []domain.Organization{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect organization rows", err)
	}
	return orgs, nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	orgs, err := r.getOrganizations(ctx, `WHERE o.id = $1`, orgID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, apperrors.NewNotFoundError("organization not found")
	}
	return &orgs[0], nil
}

func (r *PgxOrganizationRepository) SaveOrganizationWithOwner(ctx context.Context, org domain.Organization, owner domain.OrgMember) error {
	flags, err := org.FeatureFlags.Bytes()
	if err != nil {
		return apperrors.NewValidationFailedError("feature flags are not valid JSON")
	}
	whiteLabel, err := org.WhiteLabelConfig.Bytes()
	if err != nil {
		return apperrors.NewValidationFailedError("white label config is not valid JSON")
	}

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO organizations (id, name, slug, plan_tier, feature_flags, white_label_config, created_at, updated_at)
			VALUES ($1, $2, $3, $4::plan_tier, $5, $6, $7, $8)`,
			org.ID, org.Name, org.Slug, string(org.PlanTier), flags, whiteLabel, org.CreatedAt, org.UpdatedAt,
		)
		if err != nil {
			return mapWriteError(err, "failed to save organization", "organization slug "+org.Slug+" is already taken")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO org_members (id, org_id, user_id, role, invited_at, joined_at)
			VALUES ($1, $2, $3, $4::org_role, $5, $6)`,
			owner.ID, org.ID, owner.UserID, string(owner.Role), owner.InvitedAt, owner.JoinedAt,
		)
		if err != nil {
			return mapWriteError(err, "failed to save organization owner", "user is already a member of this organization")
		}
		return nil
	})
}

func (r *PgxOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	flags, err := org.FeatureFlags.Bytes()
	if err != nil {
		return apperrors.NewValidationFailedError("feature flags are not valid JSON")
	}
	whiteLabel, err := org.WhiteLabelConfig.Bytes()
	if err != nil {
		return apperrors.NewValidationFailedError("white label config is not valid JSON")
	}

	tag, err := r.Pool.Exec(ctx, `
		UPDATE organizations
		SET name = $2, feature_flags = $3, white_label_config = $4, updated_at = NOW()
		WHERE id = $1`,
		org.ID, org.Name, flags, whiteLabel,
	)
	if err != nil {
		return mapWriteError(err, "failed to update organization", "organization update conflicts with an existing record")
	}
	return requireOneRow(tag, "organization not found")
}

func (r *PgxOrganizationRepository) UpdatePlanTier(ctx context.Context, orgID string, tier domain.PlanTier) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE organizations SET plan_tier = $2::plan_tier, updated_at = NOW() WHERE id = $1`,
		orgID, string(tier),
	)
	if err != nil {
		return mapWriteError(err, "failed to update plan tier", "plan tier update conflicts with an existing record")
	}
	return requireOneRow(tag, "organization not found")
}

// DeleteOrganization removes the organization, its cascaded rows and its metric events.
func (r *PgxOrganizationRepository) DeleteOrganization(ctx context.Context, orgID string) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, orgID)
		if err != nil {
			if isMalformedID(err) {
				return apperrors.NewNotFoundError("organization not found")
			}
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete organization", err)
		}
		if err := requireOneRow(tag, "organization not found"); err != nil {
			return err
		}
		// metric_events carries no foreign key
		if _, err := tx.Exec(ctx, `DELETE FROM metric_events WHERE org_id = $1`, orgID); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete organization metrics", err)
		}
		return nil
	})
}
