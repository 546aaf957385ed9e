package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/server/core"
	"github.com/automoto/bolt-arena/server/events"
	"github.com/automoto/bolt-arena/shared/protocol"
)

func main() {
	configPath := flag.String("config", "", "TOML config file")
	envFile := flag.String("env", ".env", "Optional .env file")
	port := flag.Uint("port", 0, "Server port (overrides config)")
	tickRate := flag.Int("tickrate", 0, "Server tick rate (overrides config)")
	level := flag.String("level", "", "Level name (overrides config)")
	debug := flag.Bool("debug", false, "Development logging")
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync() //nolint:errcheck

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	if err := config.LoadEnv(*envFile); err != nil {
		logger.Fatal("load env", zap.Error(err))
	}
	if *port != 0 {
		config.Server.Port = *port
	}
	if *tickRate > 0 {
		config.Server.TickRate = *tickRate
	}
	if *level != "" {
		config.Level.Name = *level
	}

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(logger *zap.Logger) error {
	if err := protocol.RegisterComponents(); err != nil {
		return fmt.Errorf("register components: %w", err)
	}

	lvl, err := core.LoadServerLevel(config.Level.Dir, config.Level.Name, config.Level.ClipMargin, logger)
	if err != nil {
		return err
	}

	pool, err := events.ParsePool(config.Events.Pool)
	if err != nil {
		return fmt.Errorf("events pool: %w", err)
	}
	rotation := events.NewRotation(events.Settings{
		Enabled:    config.Events.Enabled,
		Interval:   events.IntervalTicks(config.Events.Interval.Duration, config.Server.TickRate),
		Pool:       pool,
		IdleChance: config.Events.IdleChance,
		Seed:       config.Events.Seed,
	}, logger)

	srv := core.NewServer(core.ServerOptions{
		Level:     lvl,
		Rotation:  rotation,
		TickRate:  config.Server.TickRate,
		Logger:    logger,
		Replicate: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Loop().Run(ctx)
	})

	// The websocket transport cannot be stopped, so it is left running when
	// the process shuts down.
	listenErr := make(chan error, 1)
	go func() { listenErr <- srv.Listen(config.Server.Port) }()
	g.Go(func() error {
		select {
		case err := <-listenErr:
			return fmt.Errorf("listen: %w", err)
		case <-ctx.Done():
			return nil
		}
	})

	if config.Server.MasterURL != "" {
		reg := core.NewRegistration(core.RegistrationInfo{
			MasterURL:  config.Server.MasterURL,
			Name:       config.Server.Name,
			Address:    config.Server.Address,
			Version:    config.Server.Version,
			Region:     config.Server.Region,
			Level:      lvl.Name,
			MaxPlayers: config.Server.MaxPlayers,
		}, srv, logger)
		g.Go(func() error {
			return reg.Run(ctx)
		})
	}

	logger.Info("starting bolt arena server",
		zap.String("name", config.Server.Name),
		zap.Uint("port", config.Server.Port),
		zap.Int("tick_rate", config.Server.TickRate),
		zap.String("level", lvl.Name),
		zap.String("version", config.Server.Version))
	return g.Wait()
}

func newLogger(debug bool) *zap.Logger {
	build := zap.NewProduction
	if debug {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
