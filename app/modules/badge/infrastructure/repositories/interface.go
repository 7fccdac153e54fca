package badgedb

import (
	"context"
)

// Repository is the persistence contract of the badge module.
type Repository interface {
	// ListAwards returns a forecaster's earned badges, oldest first.
	ListAwards(ctx context.Context, forecasterID string) ([]BadgeAwardRecord, error)
	// InsertAwards stores newly earned badges. Conflicting rows are left
	// untouched so the call is safe to retry.
	InsertAwards(ctx context.Context, awards []BadgeAwardRecord) error
}
