package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/holord/auth-gateway"
)

// seedAccounts is the admin-managed static table loaded in invitation-only
// mode. Runtime additions go through POST /api/auth/create-account.
var seedAccounts = []auth.SeedAccount{}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("holord"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)
	logger := lgr.GetLogger("server")

	cfg, err := auth.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, db := buildCredentialStore(ctx, cfg, lgr)
	if db != nil {
		defer db.Close()
	}

	registry, err := buildRegistry(cfg, lgr)
	if err != nil {
		logger.Error("unable to seed account registry", "error", err)
		os.Exit(1)
	}

	if cfg.SigningKey == "" {
		// Logins will answer with a configuration error until the secret is
		// set; the process still serves health checks and diagnostics.
		logger.Error("JWT_SECRET is not set, token issuance will fail")
	}

	tokens := auth.NewTokenService(
		[]byte(cfg.SigningKey),
		cfg.GetTokenTTL(),
		cfg.Issuer,
		lgr.GetLogger("tokens"),
	)

	auther := auth.NewAuthenticator(cfg.Mode, store, registry, tokens).
		WithLogger(lgr.GetLogger("auth"))

	app := buildApp(cfg, auther, tokens, lgr)

	go func() {
		logger.Info("server listening", "port", cfg.Port, "mode", cfg.Mode, "env", cfg.Environment)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	waitExitSignal()

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// buildCredentialStore wires the dual-tier store. Database failures are
// logged and absorbed: the gateway keeps running on the fallback tier, it
// never exits because the persistent store is unreachable.
func buildCredentialStore(ctx context.Context, cfg *auth.EnvConfig, lgr *glog.BaseLogger) (*auth.TieredCredentials, *bun.DB) {
	logger := lgr.GetLogger("store")

	fallback := auth.NewMemoryCredentials()

	if cfg.DatabaseDSN == "" {
		logger.Info("DATABASE_DSN is not set, auth will use in-memory storage")
		return auth.NewTieredCredentials(nil, fallback).WithLogger(logger), nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("database open failed, continuing without persistence", "error", err)
		return auth.NewTieredCredentials(nil, fallback).WithLogger(logger), nil
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("database ping failed, continuing without persistence", "error", err)
		db.Close()
		return auth.NewTieredCredentials(nil, fallback).WithLogger(logger), nil
	}

	if _, err := db.NewCreateTable().
		Model((*auth.Credential)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		logger.Error("schema setup failed, continuing without persistence", "error", err)
		db.Close()
		return auth.NewTieredCredentials(nil, fallback).WithLogger(logger), nil
	}

	store := auth.NewTieredCredentials(auth.NewCredentialsRepository(db), fallback).
		WithLogger(logger)
	store.MarkConnected()

	logger.Info("database connected")

	return store, db
}

func buildRegistry(cfg *auth.EnvConfig, lgr *glog.BaseLogger) (*auth.AccountRegistry, error) {
	if cfg.Mode != auth.ModeInvitationOnly {
		return nil, nil
	}

	registry, err := auth.NewAccountRegistry(cfg.AdminKey, seedAccounts)
	if err != nil {
		return nil, err
	}

	return registry.WithLogger(lgr.GetLogger("registry")), nil
}

func buildApp(cfg *auth.EnvConfig, auther auth.Authenticator, tokens auth.TokenService, lgr *glog.BaseLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "holord-auth-gateway",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ", "),
		AllowCredentials: true,
	}))

	app.Get("/api/status", func(c *fiber.Ctx) error {
		return c.SendString("Holord Backend Running")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"service":     "holord-backend",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Environment,
			"port":        cfg.Port,
		})
	})

	controller := auth.NewAuthController(
		auth.WithAuthenticator(auther),
		auth.WithTokenService(tokens),
		auth.WithControllerLogger(lgr.GetLogger("http")),
		auth.WithDebug(cfg.Debug),
	)
	auth.RegisterAuthRoutes(app.Group("/api/auth"), controller)

	app.Static("/uploads", cfg.UploadsDir)
	app.Static("/", cfg.FrontendDir)

	return app
}

func waitExitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
