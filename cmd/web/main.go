package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/ledger-atlas/pkg/server"
	"github.com/de-tools/ledger-atlas/pkg/services/config"
	"github.com/de-tools/ledger-atlas/pkg/services/ledger"
	"github.com/de-tools/ledger-atlas/pkg/store/snapshot/mongodb"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "web",
		Short: "Start the transaction ingestion and reporting server",
		RunE:  runServer,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("failed to connect snapshot store: %w", err)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	collection := client.Database(cfg.MongoDatabase).Collection(mongodb.SnapshotCollection)
	store, err := mongodb.NewStore(collection)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
		ShutdownTimeout: cfg.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Ledger: ledger.NewService(store),
		},
	})

	return api.Start()
}
