package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Миграции схемы БД",
}

func init() {
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Применить все миграции",
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = store.DB().Close() }()
				if err := db.Migrate(cmd.Context(), store.DB().DB); err != nil {
					return err
				}
				lg.Base.Info("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Откатить последнюю миграцию",
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = store.DB().Close() }()
				if err := db.MigrateDown(cmd.Context(), store.DB().DB); err != nil {
					return err
				}
				lg.Base.Info("last migration rolled back")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Текущая версия схемы",
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, err := openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = store.DB().Close() }()
				v, err := db.MigrationVersion(cmd.Context(), store.DB().DB)
				if err != nil {
					return err
				}
				lg.Base.Debug("schema version", zap.Int64("version", v))
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
	)
}
