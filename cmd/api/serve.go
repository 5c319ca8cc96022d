package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arnold/goalplan-api/internal/config"
	"github.com/arnold/goalplan-api/internal/database"
	"github.com/arnold/goalplan-api/internal/handlers"
	"github.com/arnold/goalplan-api/internal/i18n"
	"github.com/arnold/goalplan-api/internal/middleware"
	"github.com/arnold/goalplan-api/internal/routes"
	"github.com/arnold/goalplan-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

var flagSkipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		cat, err := loadCatalog(cfg)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		bundle, err := i18n.Load()
		if err != nil {
			return fmt.Errorf("load strings: %w", err)
		}

		if err := database.Connect(cfg); err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		log.Println("DB: connected")
		if !flagSkipMigrate {
			if err := database.Migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		middleware.Configure(cfg.JWTSecret)
		if err := services.InitPush(cfg.FCMServiceAccount, database.DB); err != nil {
			return err
		}
		handlers.Init(cfg, cat, bundle)

		app := newApp(cfg)

		go func() {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			<-quit
			log.Println("SERVER: shutting down")
			if err := app.Shutdown(); err != nil {
				log.Printf("SERVER: shutdown error: %v", err)
			}
		}()

		log.Printf("SERVER: listening on :%s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&flagSkipMigrate, "skip-migrate", false, "Do not run migrations on start-up")
}

func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "goalplan-api",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	routes.Setup(app)
	return app
}
