package syncmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	syncdb "github.com/calibrank/calibrank/app/modules/sync/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating verification_results and sync_schedules tables...")

		if _, err := db.NewCreateTable().Model((*syncdb.VerificationResultRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*syncdb.SyncScheduleRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewRaw("CREATE UNIQUE INDEX IF NOT EXISTS idx_verification_forecaster_source ON verification_results (forecaster_id, source_id)").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_sync_schedules_next_run ON sync_schedules (next_run_at)").Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Sync tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping sync tables...")

		if _, err := db.NewDropTable().Model((*syncdb.VerificationResultRecord)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*syncdb.SyncScheduleRecord)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Sync tables dropped successfully!")
		return nil
	})
}
