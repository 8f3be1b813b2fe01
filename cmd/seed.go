package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenleaf/plant-notes/internal/config"
	"github.com/greenleaf/plant-notes/internal/db"
	"github.com/greenleaf/plant-notes/internal/model"
	"github.com/greenleaf/plant-notes/internal/repository"
	"github.com/greenleaf/plant-notes/internal/util"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo customers and notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		conn, err := db.NewSQLiteConnection(cfg.SQLite.Path, db.SQLiteOpts{
			PingTimeout: cfg.SQLite.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("sqlite connect: %w", err)
		}
		defer conn.Close()

		if err := db.EnsureSchema(conn); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}

		log.Println(">> Seeding demo customers and notes...")

		ctx := context.Background()
		customers := repository.NewCustomersRepository(conn)
		notes := repository.NewNotesRepository(conn)

		now := time.Now().Format(time.RFC3339)

		demo := []struct {
			customer model.Customer
			notes    []model.PlantNote
		}{
			{
				customer: model.Customer{
					ID:          util.New(),
					Name:        "Alice Green",
					Email:       strptr("alice@example.com"),
					Phone:       strptr("555-0101"),
					Address:     strptr("12 Fern Street"),
					DateCreated: now,
				},
				notes: []model.PlantNote{
					{PlantName: "Monstera deliciosa", Condition: "Yellowing lower leaves", Treatment: "Reduce watering to once a week", Status: model.StatusUnhealthy},
					{PlantName: "Ficus lyrata", Condition: "New growth, good color", Treatment: "Keep current light placement", Status: model.StatusHealthy},
				},
			},
			{
				customer: model.Customer{
					ID:          util.New(),
					Name:        "Bob Moss",
					Email:       strptr("bob@example.com"),
					DateCreated: now,
				},
				notes: []model.PlantNote{
					{PlantName: "Orchid", Condition: "Root rot treated with repotting", Treatment: "Monitor for two weeks, water sparingly", Status: model.StatusTreated},
				},
			},
		}

		for _, d := range demo {
			if err := customers.Insert(ctx, d.customer); err != nil {
				if errors.Is(err, repository.ErrDuplicateName) {
					log.Printf("customer %q already seeded, skipping", d.customer.Name)
					continue
				}
				return fmt.Errorf("insert customer %q: %w", d.customer.Name, err)
			}
			for _, n := range d.notes {
				n.ID = util.New()
				n.CustomerID = d.customer.ID
				n.CustomerName = d.customer.Name
				n.DateCreated = now
				n.DateUpdated = now
				if err := notes.Insert(ctx, nil, n); err != nil {
					return fmt.Errorf("insert note %q: %w", n.PlantName, err)
				}
			}
		}

		log.Println(">> Seed completed")
		return nil
	},
}

func strptr(s string) *string { return &s }
