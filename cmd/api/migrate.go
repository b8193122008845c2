package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/iwoork/homeforpup-sub008/internal/config"
	"github.com/iwoork/homeforpup-sub008/internal/infrastructure/database"
	userAdapter "github.com/iwoork/homeforpup-sub008/internal/repository/adapter"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the user directory schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		switch cfg.DirectoryDriver {
		case config.DirectoryPostgres:
			pool, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := userAdapter.NewPgUserRepository(pool).EnsureSchema(ctx); err != nil {
				return err
			}
		case config.DirectorySQLite:
			// opening runs AutoMigrate
			if _, err := userAdapter.NewSQLiteUserRepository(cfg.DirectorySQLitePath); err != nil {
				return err
			}
		default:
			log.Printf("directory.driver=%s has no schema", cfg.DirectoryDriver)
			return nil
		}
		log.Printf("user directory schema ready (%s)", cfg.DirectoryDriver)
		return nil
	},
}
