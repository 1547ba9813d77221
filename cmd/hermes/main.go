// Hermes ingests football-data.org competition and match data into a
// partitioned bronze bucket and loads it idempotently into the warehouse.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/XavierBriggs/Hermes/adapters/footballdata"
	"github.com/XavierBriggs/Hermes/internal/bronze"
	"github.com/XavierBriggs/Hermes/internal/config"
	"github.com/XavierBriggs/Hermes/internal/notify"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hermes",
		Short:         "Football-data bronze ingestion and warehouse load pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newIngestCmd())
	root.AddCommand(newLoadCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newCheckCmd())
	return root
}

// openWarehouse opens and pings the warehouse connection.
func openWarehouse(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.WarehouseDSN)
	if err != nil {
		return nil, fmt.Errorf("open warehouse connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping warehouse: %w", err)
	}
	return db, nil
}

// newStore builds the bronze store from config.
func newStore(cfg config.Config) (*bronze.Store, error) {
	return bronze.New(bronze.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Region:    cfg.MinioRegion,
		Bucket:    cfg.BronzeBucket,
	})
}

// newAPI builds the football-data client from config.
func newAPI(cfg config.Config) *footballdata.Client {
	return footballdata.NewClient(footballdata.Config{
		Token:   cfg.APIToken,
		BaseURL: cfg.APIBaseURL,
	})
}

// newNotifier builds the stream publisher. An empty Redis address disables
// publishing; an unreachable Redis is downgraded to disabled with a
// warning, never a fatal error.
func newNotifier(ctx context.Context, cfg config.Config) *notify.Publisher {
	if cfg.RedisAddr == "" {
		return notify.NewPublisher(nil)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[hermes] warning: redis unreachable at %s, stream notifications disabled: %v", cfg.RedisAddr, err)
		client.Close()
		return notify.NewPublisher(nil)
	}
	return notify.NewPublisher(client)
}
