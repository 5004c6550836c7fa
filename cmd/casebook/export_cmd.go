package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/infrastructure/persistence"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/services"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/configuration"
)

var (
	exportCountry string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export case bookings for one country to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := configuration.Use()

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, conf.Database.Opts)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		defer pool.Close()

		ctx = composables.WithPool(ctx, pool)
		ctx = composables.WithCountry(ctx, exportCountry)

		svc := services.NewExportService(persistence.NewCaseRepository())
		data, err := svc.ExportCases(ctx, nil)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return err
		}
		cmd.Printf("wrote %s (%d bytes)\n", exportOut, len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCountry, "country", "SG", "country code to export cases for")
	exportCmd.Flags().StringVar(&exportOut, "out", "cases.xlsx", "output file path")
}
