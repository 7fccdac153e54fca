package rankingmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	rankingdb "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating forecaster_stats, leaderboard_snapshots, and rank_history tables...")

		if _, err := db.NewCreateTable().Model((*rankingdb.ForecasterStatsRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*rankingdb.LeaderboardSnapshot)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*rankingdb.RankHistoryRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_rank_history_forecaster_date ON rank_history (forecaster_id, date)").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewRaw("CREATE UNIQUE INDEX IF NOT EXISTS idx_snapshots_active ON leaderboard_snapshots (is_active) WHERE is_active").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_forecaster_stats_score ON forecaster_stats (composite_score DESC)").Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Ranking tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping ranking tables...")

		if _, err := db.NewDropTable().Model((*rankingdb.RankHistoryRecord)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*rankingdb.LeaderboardSnapshot)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*rankingdb.ForecasterStatsRecord)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Ranking tables dropped successfully!")
		return nil
	})
}
