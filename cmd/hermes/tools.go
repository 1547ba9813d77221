package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XavierBriggs/Hermes/internal/config"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Inspect upstream API data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "competitions",
		Short: "Print the competitions the API exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			payload, err := newAPI(cfg).Competitions(cmd.Context())
			if err != nil {
				return err
			}

			comps, _ := payload["competitions"].([]any)
			fmt.Println("ID | CODE | NAME")
			fmt.Println(strings.Repeat("-", 60))
			for _, c := range comps {
				comp, ok := c.(map[string]any)
				if !ok {
					continue
				}
				fmt.Printf("%v | %v | %v\n", comp["id"], comp["code"], comp["name"])
			}
			return nil
		},
	})

	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe external collaborators",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "warehouse",
		Short: "Verify the warehouse connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := openWarehouse(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			var user, database string
			row := db.QueryRowContext(cmd.Context(), "SELECT current_user, current_database()")
			if err := row.Scan(&user, &database); err != nil {
				return fmt.Errorf("query warehouse identity: %w", err)
			}

			fmt.Printf("✓ Connected: user=%s, db=%s\n", user, database)
			return nil
		},
	})

	return cmd
}
