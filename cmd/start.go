package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"video-catalog/core/loader"
	"video-catalog/core/logger"
	"video-catalog/core/metrics"
	"video-catalog/core/middleware/auth"
	"video-catalog/core/middleware/rayid"
	"video-catalog/core/token"
	"video-catalog/feature/accounts"
	"video-catalog/feature/integrity"
	"video-catalog/feature/library"
	"video-catalog/feature/topics"
	"video-catalog/feature/videos"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "video-catalog/docs/swagger"
)

// @title Video Catalog API
// @version 1.0
// @description API for cataloging videos by topic, with bulk create-or-update ingestion.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the video catalog server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := newRuntime(true)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := rt.log
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := rt.cfg.Validate(); err != nil {
			logg.Fatal("Invalid configuration", zap.Error(err))
		}

		tokens, err := token.NewManager(rt.cfg.Auth, rt.db)
		if err != nil {
			logg.Fatal("Failed to create token manager", zap.Error(err))
		}
		// Startup continues if the purge fails; the error is already logged.
		_, _ = purgeRevokedTokens(cmd.Context(), tokens, logg)

		m := metrics.New()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
			BodyLimit:             rt.cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager(logg)
		bucket := rt.cfg.Storage.Bucket
		mgr.Register(videos.NewFeature(rt.db, rt.client, bucket, logg, m, rt.cfg.Server.DefaultPageSize))
		mgr.Register(topics.NewFeature(rt.db, logg))
		accountsFeature := accounts.NewFeature(rt.db, tokens, logg)
		mgr.Register(accountsFeature)
		mgr.Register(library.NewFeature(rt.db, rt.client, bucket, logg))
		mgr.Register(integrity.NewFeature(rt.db, rt.client, bucket, logg, catalogModels()...))

		// RayID first so every later log line carries it.
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

		app.Use(m.Middleware())
		app.Get("/metrics", m.Handler())

		app.Get("/swagger/*", swagger.HandlerDefault)

		// Authentication is optional globally; routes demand a user or an admin.
		app.Use(auth.New(auth.Config{
			ApiKey: rt.cfg.Server.ApiKey,
			Tokens: tokens,
			Users:  accountsFeature.Service(),
		}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
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
