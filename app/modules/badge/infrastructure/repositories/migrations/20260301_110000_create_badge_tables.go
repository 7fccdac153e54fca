package badgemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	badgedb "github.com/calibrank/calibrank/app/modules/badge/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating badge_awards table...")

		if _, err := db.NewCreateTable().Model((*badgedb.BadgeAwardRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewRaw("CREATE UNIQUE INDEX IF NOT EXISTS idx_badge_awards_forecaster_badge ON badge_awards (forecaster_id, badge_id)").Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Badge tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping badge tables...")

		if _, err := db.NewDropTable().Model((*badgedb.BadgeAwardRecord)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Badge tables dropped successfully!")
		return nil
	})
}
