package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Spok95/kindergarten/internal/auth"
	"github.com/Spok95/kindergarten/internal/models"
)

var adminFlags struct {
	email    string
	password string
	name     string
}

// createAdminCmd — первый администратор: через API его создать некому.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Создать пользователя с ролью admin",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(adminFlags.password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.DB().Close() }()

		hash, err := auth.HashPassword(adminFlags.password)
		if err != nil {
			return err
		}
		u := &models.User{
			Email:        adminFlags.email,
			PasswordHash: hash,
			FullName:     adminFlags.name,
			Role:         models.Admin,
		}
		if err := store.CreateUser(cmd.Context(), u); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		lg.Base.Info("admin created", zap.Int64("id", u.ID), zap.String("email", u.Email))
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "email администратора")
	f.StringVar(&adminFlags.password, "password", "", "пароль (не короче 8 символов)")
	f.StringVar(&adminFlags.name, "name", "Администратор", "ФИО")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
