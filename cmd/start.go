package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalog-mirror/core/loader"
	"catalog-mirror/core/logger"
	"catalog-mirror/core/middleware/auth"
	"catalog-mirror/core/middleware/rayid"
	"catalog-mirror/core/reconcile"
	"catalog-mirror/core/storage"
	catalogmodels "catalog-mirror/feature/catalog/models"
	"catalog-mirror/feature/catalog/syncer"
	storemodels "catalog-mirror/feature/storefront/models"

	"catalog-mirror/feature/catalog"
	"catalog-mirror/feature/integrity"
	"catalog-mirror/feature/storefront"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "catalog-mirror/docs/swagger"
)

// @title Catalog Mirror API
// @version 1.0
// @description API for the mirrored artist catalog and its storefronts.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog mirror server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger, database
		e, err := setup()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := e.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Storage (optional, only snapshots live there)
		var store storage.Client
		if client, err := storage.NewClient(e.cfg.Storage); err != nil {
			logg.Warn("Storage client unavailable, snapshots disabled", zap.Error(err))
			e.cfg.Sync.Prefetch, e.cfg.Sync.Snapshot = false, false
		} else {
			store = client
		}

		// 3. Sync engine
		engine, err := e.newSyncer(store)
		if err != nil {
			logg.Fatal("Failed to create syncer", zap.Error(err))
		}

		// 4. Features
		storefrontFeature := storefront.NewFeature(e.db, e.cfg.Storefront, logg)
		engine.OnComplete(func(scope reconcile.Scope) {
			storefrontFeature.Service().Invalidate()
			logg.Debug("Storefront listings invalidated", zap.String("scope", string(scope)))
		})

		mgr := loader.NewManager(logg)
		mgr.Register(catalog.NewFeature(e.db, engine, logg))
		mgr.Register(storefrontFeature)
		mgr.Register(integrity.NewFeature(store, e.db, integrity.Options{
			Bucket:       e.cfg.Storage.Bucket,
			Region:       e.cfg.Storage.Region,
			SnapshotKeys: syncer.SnapshotKeys(e.cfg.Sync.SnapshotPrefix, e.cfg.Remote.ArtistIDList()),
			Models:       append(catalogmodels.All(), storemodels.All()...),
		}, logg))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             e.cfg.Server.BodyLimit(),
		})

		// RayID first so every log line can be traced.
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

		// Swagger stays public.
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: e.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", e.cfg.Server.Port), zap.Strings("features", mgr.Names()))
			if err := app.Listen(":" + e.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
