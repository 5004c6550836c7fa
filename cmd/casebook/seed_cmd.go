package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/aggregates/casebooking"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/infrastructure/persistence"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/configuration"
)

var seedCountry string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample case bookings for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := configuration.Use()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, conf.Database.Opts)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		defer pool.Close()

		ctx = composables.WithPool(ctx, pool)
		ctx = composables.WithCountry(ctx, seedCountry)

		repo := persistence.NewCaseRepository()
		samples := []casebooking.CaseBooking{
			casebooking.New(
				seedCountry, "General Hospital", "Orthopedics",
				time.Now().AddDate(0, 0, 7), "Knee Replacement", "Total Knee Arthroplasty",
				"Dr. Tan", "09:00", []string{"Knee Set A", "Knee Set B"},
				[]casebooking.ImplantBox{{Name: "Tibial Tray", Quantity: 2}},
				"", "seed",
			),
			casebooking.New(
				seedCountry, "Mount Hope Medical Centre", "Cardiology",
				time.Now().AddDate(0, 0, 14), "Valve Repair", "Mitral Valve Repair",
				"Dr. Lee", "14:30", []string{"Cardiac Set"},
				nil, "patient has metal allergy", "seed",
			),
		}

		return composables.InTx(ctx, func(txCtx context.Context) error {
			for _, sample := range samples {
				created, err := repo.Create(txCtx, sample)
				if err != nil {
					return err
				}
				cmd.Printf("seeded %s (%s)\n", created.RefNumber(), created.ID())
			}
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedCountry, "country", "SG", "country code to seed cases for")
}
