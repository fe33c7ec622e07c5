package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"dog-inventory/core/loader"
	"dog-inventory/core/logger"
	"dog-inventory/core/middleware/auth"
	"dog-inventory/core/middleware/rayid"
	"dog-inventory/feature/integrity"
	"dog-inventory/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the inventory server",
	Long:  `Starts the HTTP server. Every inventory request runs a fresh reconciliation; concurrent requests share one run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		logg := a.logger
		zap.ReplaceGlobals(logg)

		runner, err := a.runner(cmd.Context())
		if err != nil {
			return err
		}

		var history inventory.History
		if a.recorder != nil {
			history = a.recorder
		}

		// Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		src, err := a.source()
		if err != nil {
			return err
		}
		client, err := a.storageClient()
		if err != nil {
			return err
		}

		mgr := loader.NewManager(logg)
		mgr.Register(inventory.NewFeature(runner, history, logg))
		mgr.Register(integrity.NewFeature(src, client, a.cfg.Storage, a.database(), logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
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

		// Metrics are public
		if a.cfg.Server.MetricsEnabled() {
			app.Get(a.cfg.Server.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
		}

		if a.cfg.Server.ApiKey == "" {
			logg.Warn("No API key configured, inventory routes are unauthenticated")
		}
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("addr", a.cfg.Server.Addr()))
			if err := app.Listen(a.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
