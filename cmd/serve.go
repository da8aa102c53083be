package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feature-manifest/core/definition"
	"feature-manifest/core/loader"
	"feature-manifest/core/logger"
	"feature-manifest/core/middleware/auth"
	"feature-manifest/core/middleware/rayid"
	"feature-manifest/feature/flags"
	"feature-manifest/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "feature-manifest/docs/swagger"
)

// @title Feature Manifest API
// @version 1.0
// @description API for resolving feature availability manifests.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Start the manifest server",
	Long:    `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration and logger
		rt, err := newRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 2. Storage
		client, err := rt.storage()
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 3. Manifest service (definition, settings, resolver, cache, archive)
		svc, err := rt.service(ctx, true)
		if err != nil {
			logg.Fatal("Failed to initialize manifest service", zap.Error(err))
		}
		def := svc.Definition()
		if missing := def.Rules.Missing(def.Graph); len(missing) > 0 {
			logg.Warn("Features without availability rule", zap.Int("count", len(missing)))
		}
		logg.Info("Definition loaded",
			zap.Int("features", def.Graph.Len()),
			zap.String("version", def.Version),
			zap.Bool("settings_database", rt.store != nil))

		// 4. Definition watcher
		if rt.cfg.Definition.Watch && rt.cfg.Definition.Object == "" {
			debounce := time.Duration(rt.cfg.Definition.DebounceMillis) * time.Millisecond
			watcher := definition.NewWatcher(rt.cfg.Definition.Path, debounce, logg, reloadOnChange(ctx, svc, logg))
			go func() {
				if err := watcher.Run(ctx); err != nil {
					logg.Error("Definition watcher stopped", zap.Error(err))
				}
			}()
			logg.Info("Watching definition file", zap.String("path", rt.cfg.Definition.Path))
		}

		// 5. Fiber app and features
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		layout := integrity.Layout{
			Region:  rt.cfg.Storage.Region,
			Folders: []string{rt.cfg.Manifest.ArchivePrefix},
		}
		if rt.cfg.Definition.Object != "" {
			layout.Objects = []string{rt.cfg.Definition.Object}
		}

		mgr := loader.NewManager()
		mgr.Register(flags.NewFeature(svc))
		mgr.Register(integrity.NewFeature(client, rt.cfg.Storage.Bucket, layout, logg, rt.db, svc))

		// RayID first so everything after it is traceable.
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

		// Swagger and metrics stay public.
		app.Get("/swagger/*", swagger.HandlerDefault)

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			flags.NewCollector(svc),
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start server
		go func() {
			logg.Info("Starting server",
				zap.String("port", rt.cfg.Server.Port),
				zap.Strings("features", mgr.Names()))
			if err := app.Listen(rt.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(rt.cfg.Server.ShutdownTimeout()); err != nil {
			logg.Error("Server shutdown failed", zap.Error(err))
		}
	},
}

type reloader interface {
	Reload(ctx context.Context) error
}

// reloadOnChange returns the watcher callback. The service logs failed reloads itself.
func reloadOnChange(ctx context.Context, r reloader, logg *zap.Logger) func() {
	return func() {
		if err := r.Reload(ctx); err != nil {
			logg.Debug("Definition change not applied", zap.Error(err))
		}
	}
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
