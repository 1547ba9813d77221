package main

import (
	"github.com/spf13/cobra"

	"github.com/XavierBriggs/Hermes/internal/config"
	"github.com/XavierBriggs/Hermes/internal/ingest"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch API payloads and write them to the bronze bucket",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "competitions",
		Short: "Snapshot the competitions listing into bronze",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := buildRunner(cmd)
			if err != nil {
				return err
			}
			return runner.Competitions(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "matches",
		Short: "Fetch the incremental match window for each target competition",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := config.LoadTargets()
			if err != nil {
				return err
			}
			runner, err := buildRunner(cmd)
			if err != nil {
				return err
			}
			return runner.Incremental(cmd.Context(), targets)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "backfill",
		Short: "Fetch a historical match range in day chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			bf, err := config.LoadBackfill()
			if err != nil {
				return err
			}
			runner, err := buildRunner(cmd)
			if err != nil {
				return err
			}
			return runner.Backfill(cmd.Context(), bf)
		},
	})

	return cmd
}

func buildRunner(cmd *cobra.Command) (*ingest.Runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	return &ingest.Runner{
		API:    newAPI(cfg),
		Store:  store,
		Notify: newNotifier(cmd.Context(), cfg),
		Bucket: cfg.BronzeBucket,
	}, nil
}
