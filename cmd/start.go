package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-tracker/core/loader"
	"inventory-tracker/core/logger"
	"inventory-tracker/core/middleware/auth"
	"inventory-tracker/core/middleware/rayid"
	"inventory-tracker/feature/integrity"
	"inventory-tracker/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "inventory-tracker/docs/swagger"
)

// @title Inventory Tracker API
// @version 1.0
// @description Read-only status API for the vendor inventory collector.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the collector and the status API",
	Long:  `Migrates the schema, then runs collection cycles until interrupted while serving the status API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.migrate(ctx); err != nil {
			return err
		}

		rec, err := a.reconciler(ctx, false)
		if err != nil {
			return err
		}
		runner, err := a.runner(ctx, rec)
		if err != nil {
			return err
		}

		var app *fiber.App
		if a.cfg.Server.Enabled {
			app = newServer(a)
			go func() {
				a.logger.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
				if err := app.Listen(a.cfg.Server.Address()); err != nil {
					a.logger.Error("Server stopped", zap.Error(err))
				}
			}()
		}

		err = runner.Run(ctx)

		a.logger.Info("Shutting down...")
		if app != nil {
			if shutdownErr := app.ShutdownWithTimeout(10 * time.Second); shutdownErr != nil {
				err = errors.Join(err, shutdownErr)
			}
		}
		return err
	},
}

// newServer builds the status API with its middleware and features.
func newServer(a *application) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line carries it.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(a.logger, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := a.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

	mgr := loader.NewManager(a.logger)
	mgr.Register(inventory.NewFeature(a.store, a.logger))
	mgr.Register(integrity.NewFeature(a.db, a.storage, a.cfg.Storage.Bucket, a.cfg.Storage.Region, a.logger))
	if err := mgr.LoadAll(app); err != nil {
		a.logger.Fatal("Failed to load features", zap.Error(err))
	}
	return app
}

func init() {
	RootCmd.AddCommand(startCmd)
}
