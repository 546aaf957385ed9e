package core

import (
	"context"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
	"go.uber.org/zap"
)

type GameLoop struct {
	server   *Server
	tickRate int
	logger   *zap.Logger
}

func NewGameLoop(server *Server, tickRate int, logger *zap.Logger) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		logger:   logger.Named("loop"),
	}
}

// Run ticks the server at the loop's tick rate until ctx is done.
func (g *GameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	g.logger.Info("game loop started", zap.Int("tick_rate", g.tickRate))

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("game loop stopped", zap.Int("tick", g.server.tick))
			return nil
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *GameLoop) tick() {
	g.server.Step()

	if !g.server.replicate {
		return
	}
	if err := srvsync.DoSync(); err != nil {
		g.logger.Warn("sync", zap.Error(err))
	}
}
