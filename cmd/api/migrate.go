package main

import (
	"log"

	"github.com/arnold/goalplan-api/internal/config"
	"github.com/arnold/goalplan-api/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := database.Connect(cfg); err != nil {
			return err
		}
		if err := database.Migrate(); err != nil {
			return err
		}
		log.Println("DB: migrations applied")
		return nil
	},
}
