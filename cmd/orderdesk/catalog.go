package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/orderdesk/internal/cli"
	"github.com/aretw0/orderdesk/internal/presentation/tui"
	"github.com/aretw0/orderdesk/pkg/ports"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and maintain the vehicle catalog",
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List every vehicle, including those out of stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		writer, ok := app.Desk.Store().(ports.CatalogWriter)
		if !ok {
			return errors.New("store does not expose its catalog")
		}
		vehicles, err := writer.Vehicles(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing catalog: %w", err)
		}

		text, err := tui.NewRenderer(os.Stdout)(tui.FormatCatalog(vehicles))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default inventory, or upsert vehicles from a YAML file",
	Long: `Without --file, inserts the default dealership inventory when the catalog is empty.
With --file, upserts every vehicle listed under the 'vehicles' key (prices in cents).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")

		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		if path == "" {
			// The default inventory is loaded while building unless seeding is disabled.
			seeder, ok := app.Desk.Store().(ports.Seeder)
			if !ok {
				return errors.New("store cannot be seeded")
			}
			if err := seeder.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Default inventory loaded.")
			return nil
		}

		if err := cli.ImportCatalog(cmd.Context(), app.Desk.Store(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog updated from %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLsCmd)
	catalogCmd.AddCommand(catalogSeedCmd)

	catalogSeedCmd.Flags().StringP("file", "f", "", "YAML file with a 'vehicles' list")
}
