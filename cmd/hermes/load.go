package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/XavierBriggs/Hermes/internal/config"
	"github.com/XavierBriggs/Hermes/internal/ledger"
	"github.com/XavierBriggs/Hermes/internal/load"
	"github.com/XavierBriggs/Hermes/internal/warehouse"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load bronze objects into the warehouse",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "matches",
		Short: "Load all not-yet-loaded match files and manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPass(cmd.Context(), func(ctx context.Context, pass *load.Pass) error {
				return pass.IncrementalMatches(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "latest-matches",
		Short: "Re-load the most recent match file and its manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPass(cmd.Context(), func(ctx context.Context, pass *load.Pass) error {
				return pass.LatestMatches(ctx)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "latest-competition",
		Short: "Re-load the most recent competitions snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPass(cmd.Context(), func(ctx context.Context, pass *load.Pass) error {
				return pass.LatestCompetition(ctx)
			})
		},
	})

	return cmd
}

// withPass wires the store, ledger and warehouse into a load pass and
// closes the warehouse handle when the pass finishes.
func withPass(ctx context.Context, fn func(context.Context, *load.Pass) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	db, err := openWarehouse(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	pass := &load.Pass{
		Store:     store,
		Ledger:    ledger.New(db),
		Warehouse: warehouse.New(db),
		Notify:    newNotifier(ctx, cfg),
	}
	return fn(ctx, pass)
}
