package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orderhub/orderhub/internal/model"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the OrderHub database",
	}

	cmd.AddCommand(newDBMigrateCmd())
	cmd.AddCommand(newDBSeedCmd())

	return cmd
}

func newDBMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Connect to the configured database and create any missing tables and indexes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			fmt.Printf("Migrations applied (%s)\n", st.Driver())
			return nil
		},
	}
}

// seedProducts is the initial product catalog, loaded by `orderhub db seed`.
var seedProducts = []model.Product{
	{Name: "Hard drive", Description: "external hard drive, 2 TB, USB-C"},
	{Name: "Keyboard", Description: "mechanical keyboard, ISO layout"},
	{Name: "Mouse", Description: "wireless mouse, 2.4 GHz receiver"},
	{Name: "Monitor", Description: "27 inch monitor, 2560x1440"},
	{Name: "Docking station", Description: "USB-C docking station, dual display"},
	{Name: "Headset", Description: "noise cancelling headset with microphone"},
	{Name: "Webcam", Description: "1080p webcam with privacy shutter"},
	{Name: "Laptop stand", Description: "adjustable aluminium laptop stand"},
}

func newDBSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the initial product catalog",
		Long:  "Insert the built-in product fixtures. Safe to run against an empty database only; existing products are not deduplicated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			ctx := context.Background()
			existing, err := st.ListProducts(ctx)
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}
			if len(existing) > 0 {
				return fmt.Errorf("database already has %d products, refusing to seed again", len(existing))
			}

			for i := range seedProducts {
				p := seedProducts[i]
				if err := st.CreateProduct(ctx, &p); err != nil {
					return fmt.Errorf("seed product %q: %w", p.Name, err)
				}
				fmt.Printf("  + %d %s\n", p.ID, p.Name)
			}
			fmt.Printf("Seeded %d products\n", len(seedProducts))
			return nil
		},
	}
}
