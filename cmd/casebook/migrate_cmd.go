package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/transmedic-it-sg/tm-case-booking/modules"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/application"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/configuration"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/eventbus"
)

const schemaDir = "infrastructure/persistence/schema"

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations from every registered module",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := configuration.Use()
		db, err := sql.Open("postgres", conf.Database.Opts)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}

		app := application.New(&application.ApplicationOptions{
			EventBus: eventbus.NewEventPublisher(conf.Logger()),
			Logger:   conf.Logger(),
		})
		if err := modules.Load(app, modules.BuiltInModules...); err != nil {
			return fmt.Errorf("load modules: %w", err)
		}

		schemaFS := app.SchemaFS()
		if migrateDown {
			// Roll back in reverse registration order so dependents drop first.
			for i := len(schemaFS) - 1; i >= 0; i-- {
				goose.SetBaseFS(schemaFS[i])
				if err := goose.Down(db, schemaDir); err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
			}
			return nil
		}

		// Module schema files carry globally unique goose versions, so
		// applying each module's FS in registration order yields one
		// consistent version history.
		for _, fsys := range schemaFS {
			goose.SetBaseFS(fsys)
			if err := goose.Up(db, schemaDir, goose.WithAllowMissing()); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back the most recent migration of each module")
}
