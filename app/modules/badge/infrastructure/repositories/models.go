// Package badgedb persists badge awards.
package badgedb

import (
	"time"

	"github.com/uptrace/bun"

	badgedomain "github.com/calibrank/calibrank/app/modules/badge/domain"
)

// BadgeAwardRecord is one earned badge. The (forecaster, badge) pair is
// unique; re-evaluation never rewrites an existing row.
type BadgeAwardRecord struct {
	bun.BaseModel `bun:"table:badge_awards,alias:ba"`

	ID           int64               `bun:"id,pk,autoincrement"`
	ForecasterID string              `bun:"forecaster_id,notnull"`
	BadgeID      badgedomain.BadgeID `bun:"badge_id,notnull"`
	EarnedAt     time.Time           `bun:"earned_at,notnull"`
}
