package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	badgemigrations "github.com/calibrank/calibrank/app/modules/badge/infrastructure/repositories/migrations"
	rankingmigrations "github.com/calibrank/calibrank/app/modules/ranking/infrastructure/repositories/migrations"
	syncmigrations "github.com/calibrank/calibrank/app/modules/sync/infrastructure/repositories/migrations"
	"github.com/calibrank/calibrank/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	migrators := map[string]*migrate.Migrator{
		"ranking": migrate.NewMigrator(db, rankingmigrations.Migrations),
		"badge":   migrate.NewMigrator(db, badgemigrations.Migrations),
		"sync":    migrate.NewMigrator(db, syncmigrations.Migrations),
	}

	cliApp := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			newMultiModuleDBCommand(migrators),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// selectMigrators scopes the migrator set to one module, or returns the full
// set for "all".
func selectMigrators(migrators map[string]*migrate.Migrator, module string) (map[string]*migrate.Migrator, error) {
	if module == "" || module == "all" {
		return migrators, nil
	}
	migrator, ok := migrators[module]
	if !ok {
		return nil, fmt.Errorf("unknown module %q (want ranking, badge, sync, or all)", module)
	}
	return map[string]*migrate.Migrator{module: migrator}, nil
}

func newMultiModuleDBCommand(migrators map[string]*migrate.Migrator) *cli.Command {
	moduleFlag := &cli.StringFlag{
		Name:  "module",
		Usage: "limit to one module (ranking, badge, sync) or all",
		Value: "all",
	}

	return &cli.Command{
		Name:  "db",
		Usage: "database migrations",
		Flags: []cli.Flag{moduleFlag},
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					scoped, err := selectMigrators(migrators, c.String("module"))
					if err != nil {
						return err
					}
					for moduleName, migrator := range scoped {
						fmt.Printf("Initializing migrations for module: %s\n", moduleName)
						if err := migrator.Init(c.Context); err != nil {
							return err
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					scoped, err := selectMigrators(migrators, c.String("module"))
					if err != nil {
						return err
					}
					for moduleName, migrator := range scoped {
						fmt.Printf("Running migrations for module: %s\n", moduleName)
						group, err := migrator.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", moduleName)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					scoped, err := selectMigrators(migrators, c.String("module"))
					if err != nil {
						return err
					}
					for moduleName, migrator := range scoped {
						fmt.Printf("Rolling back migrations for module: %s\n", moduleName)
						group, err := migrator.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", moduleName)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: func(c *cli.Context) error {
					scoped, err := selectMigrators(migrators, c.String("module"))
					if err != nil {
						return err
					}
					for moduleName, migrator := range scoped {
						status, err := migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("%s: migrations: %s\n", moduleName, status)
						fmt.Printf("%s: unapplied: %s\n", moduleName, status.Unapplied())
						fmt.Printf("%s: last group: %s\n", moduleName, status.LastGroup())
					}
					return nil
				},
			},
		},
	}
}
