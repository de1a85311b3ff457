package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Spok95/kindergarten/internal/config"
	"github.com/Spok95/kindergarten/internal/db"
	"github.com/Spok95/kindergarten/internal/logging"
)

// version проставляется при сборке: -ldflags "-X main.version=..."
var version = "dev"

var (
	cfg *config.Config
	lg  *logging.Log
)

var rootCmd = &cobra.Command{
	Use:           "kindergarten",
	Short:         "REST API детского сада",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if lg, err = logging.Init(cfg.LogLevel, cfg.Env); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if lg != nil {
			lg.Closer()
		}
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openStore — пул соединений по настройкам из окружения.
func openStore(ctx context.Context) (*db.Store, error) {
	database, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return nil, err
	}
	return db.New(database), nil
}
