package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-poll/poll-cli/internal"
	"smart-poll/poll-cli/internal/api"
	"smart-poll/poll-cli/internal/cli"
	"smart-poll/poll-cli/internal/config"
	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/session"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var AppName = "pollcli"

var (
	Version    = "no-version"
	BuildTime  = "no-build-time"
	CommitHash = "no-commit-hash"
)

func main() {
	if name := os.Getenv("APP_NAME"); name != "" {
		AppName = name
	}
	if BuildTime == "no-build-time" {
		BuildTime = "not provided (now: " + time.Now().Format(time.RFC3339) + ")"
	}

	appMetadata := []zap.Field{
		zap.String("app_name", AppName),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit_hash", CommitHash),
	}

	cfg, args, cfgLog := config.Load(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrBaseURLRequired) {
			log.Fatal("A backend base URL is required. Set POLLCLI_BASE_URL or pass --base-url.")
		}
		log.Fatalf("Failed to validate config: %v, exiting...", err)
	}

	logger, err := initLogger(cfg, appMetadata)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfgLog.FlushToZap(logger)

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath, err = session.DefaultPath()
		if err != nil {
			logger.Fatal("Failed to resolve token path", zap.Error(err))
		}
	}

	store := session.NewStore(tokenPath)

	// The client needs the session's token and the session needs the
	// client for bootstrap; the function indirection breaks the loop.
	var sessions *session.Service
	client := api.NewClient(logger, cfg.BaseURL,
		api.TokenSourceFunc(func() string { return sessions.Token() }),
		api.WithRateLimit(rate.Every(100*time.Millisecond), 10),
	)
	sessions = session.NewService(logger, client, store)

	polls := poll.NewService(logger, client)
	validate := internal.NewValidator()

	app := cli.New(logger, cfg, sessions, polls, client, validate, os.Stdin, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func initLogger(cfg config.Config, appMetadata []zap.Field) (*zap.Logger, error) {
	if cfg.Debug {
		zapCfg := zap.NewDevelopmentConfig()
		logger, err := zapCfg.Build()
		if err != nil {
			return nil, err
		}
		logger.Info("Running in debug mode", appMetadata...)
		return logger, nil
	}

	// Interactive output owns stdout; diagnostics go to stderr and stay
	// quiet below the warn level.
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	zapCfg.OutputPaths = []string{"stderr"}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(appMetadata...), nil
}
