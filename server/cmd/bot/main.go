package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/network"
	"github.com/automoto/bolt-arena/shared/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:7373", "Game server address")
	name := flag.String("name", "bot", "Player name")
	version := flag.String("version", "", "Client version sent in the join request")
	difficulty := flag.String("difficulty", "normal", "easy, normal or hard")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = until interrupted)")
	seed := flag.Int64("seed", 0, "Random seed (0 = from the clock)")
	debug := flag.Bool("debug", false, "Development logging")
	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync() //nolint:errcheck

	diff, err := config.ParseBotDifficulty(*difficulty)
	if err != nil {
		logger.Fatal("bad flag", zap.Error(err))
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if err := protocol.RegisterComponents(); err != nil {
		logger.Fatal("register components", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	client := network.NewClient(logger)
	client.Connect(*addr, *version, *name)
	defer client.Disconnect()

	bot := network.NewBot(client, diff, *seed, logger)
	logger.Info("bot started",
		zap.String("addr", *addr),
		zap.String("name", *name),
		zap.Stringer("difficulty", diff))
	if err := bot.Run(ctx, time.Second/60); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
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
