package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/lborres/linguachat"
	fiberadapter "github.com/lborres/linguachat/adapters/fiber"
	"github.com/lborres/linguachat/adapters/memory"
	pgxadapter "github.com/lborres/linguachat/adapters/pgx"
	"github.com/lborres/linguachat/adapters/stream"
	"github.com/lborres/linguachat/pkg/crypto"
	"github.com/lborres/linguachat/pkg/logging"
	"github.com/lborres/linguachat/pkg/metrics"
)

var version = "dev"

const shutdownTimeout = 30 * time.Second

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "listen-addr",
		Value:   ":5001",
		Usage:   "address to listen on for the API",
		EnvVars: []string{"LISTEN_ADDR"},
	},
	&cli.StringFlag{
		Name:    "storage",
		Value:   "postgres",
		Usage:   "storage backend: 'postgres' or 'memory'",
		EnvVars: []string{"STORAGE"},
	},
	&cli.StringFlag{
		Name:    "database-url",
		Usage:   "PostgreSQL connection string (required for postgres storage)",
		EnvVars: []string{"DATABASE_URL"},
	},
	&cli.BoolFlag{
		Name:    "migrate",
		Value:   true,
		Usage:   "apply embedded migrations on startup",
		EnvVars: []string{"MIGRATE"},
	},
	&cli.StringFlag{
		Name:     "jwt-secret",
		Usage:    "session signing secret, at least 32 characters",
		EnvVars:  []string{"JWT_SECRET_KEY"},
		Required: true,
	},
	&cli.StringFlag{
		Name:    "stream-api-key",
		Usage:   "Stream Chat API key; chat is disabled when empty",
		EnvVars: []string{"STREAM_API_KEY"},
	},
	&cli.StringFlag{
		Name:    "stream-api-secret",
		Usage:   "Stream Chat API secret",
		EnvVars: []string{"STREAM_API_SECRET"},
	},
	&cli.StringFlag{
		Name:    "stream-base-url",
		Value:   stream.DefaultBaseURL,
		Usage:   "Stream Chat REST base URL",
		EnvVars: []string{"STREAM_BASE_URL"},
	},
	&cli.BoolFlag{
		Name:    "production",
		Usage:   "mark session cookies Secure",
		EnvVars: []string{"PRODUCTION"},
	},
	&cli.StringFlag{
		Name:    "password-hasher",
		Value:   "bcrypt",
		Usage:   "password hashing algorithm: 'bcrypt' or 'argon2'",
		EnvVars: []string{"PASSWORD_HASHER"},
	},
	&cli.Float64Flag{
		Name:    "rate-limit",
		Value:   5,
		Usage:   "signup/login requests per second allowed per client IP",
		EnvVars: []string{"RATE_LIMIT"},
	},
	&cli.IntFlag{
		Name:    "rate-burst",
		Value:   10,
		Usage:   "signup/login burst per client IP",
		EnvVars: []string{"RATE_BURST"},
	},
	&cli.BoolFlag{
		Name:    "log-json",
		Usage:   "log in JSON format",
		EnvVars: []string{"LOG_JSON"},
	},
	&cli.BoolFlag{
		Name:    "log-debug",
		Usage:   "log debug messages",
		EnvVars: []string{"LOG_DEBUG"},
	},
}

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "linguachat",
		Usage:   "Serve the language-exchange chat API",
		Version: version,
		Flags:   flags,
		Action:  run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := logging.Setup(&logging.Options{
		Debug:   cCtx.Bool("log-debug"),
		JSON:    cCtx.Bool("log-json"),
		Service: "linguachat",
		Version: version,
	})

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := openStorage(ctx, cCtx, logger)
	if err != nil {
		logger.Error("Failed to open storage", "err", err)
		return err
	}
	defer closeStorage()

	hasher, err := crypto.NewPasswordHandler(cCtx.String("password-hasher"))
	if err != nil {
		return err
	}

	server := fiber.New(fiber.Config{AppName: "linguachat"})
	server.Use(recoverer.New())
	server.Use(fiberlogger.New())

	config := linguachat.Config{
		Secret:         cCtx.String("jwt-secret"),
		Storage:        storage,
		PasswordHasher: hasher,
		SessionConfig: &linguachat.SessionConfig{
			Secure: cCtx.Bool("production"),
		},
		Logger:  logger,
		Metrics: metrics.New(),
		HTTP: fiberadapter.New(server, fiberadapter.Options{
			RateLimit: rate.Limit(cCtx.Float64("rate-limit")),
			RateBurst: cCtx.Int("rate-burst"),
		}),
	}

	if key := cCtx.String("stream-api-key"); key != "" {
		bridge, err := stream.New(stream.Config{
			APIKey:    key,
			APISecret: cCtx.String("stream-api-secret"),
			BaseURL:   cCtx.String("stream-base-url"),
		})
		if err != nil {
			return err
		}
		config.ChatBridge = bridge
	} else {
		logger.Warn("Stream API key not set, chat sync disabled")
	}

	if _, err := linguachat.New(config); err != nil {
		logger.Error("Failed to assemble app", "err", err)
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		addr := cCtx.String("listen-addr")
		logger.Info("Starting server", "addr", addr)
		listenErr <- server.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "err", err)
		return err
	}
	logger.Info("Server shutdown complete")
	return nil
}

func openStorage(ctx context.Context, cCtx *cli.Context, logger *slog.Logger) (linguachat.Storage, func(), error) {
	switch kind := cCtx.String("storage"); kind {
	case "memory":
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memory.New(), func() {}, nil

	case "postgres":
		dsn := cCtx.String("database-url")
		if dsn == "" {
			return nil, nil, errors.New("database-url is required for postgres storage")
		}
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}

		db := pgxadapter.New(pool)
		if cCtx.Bool("migrate") {
			logger.Info("Applying migrations")
			if err := db.Migrate(ctx); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return db, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("invalid storage: %s", kind)
	}
}
