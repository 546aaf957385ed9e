package network

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/shared/messages"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

// Bot plays through a Client: it walks toward the nearest character, fires
// at it when close enough and jumps now and then.
type Bot struct {
	client *Client
	roster *Roster
	brain  *Brain
	logger *zap.Logger
}

func NewBot(client *Client, difficulty config.BotDifficulty, seed int64, logger *zap.Logger) *Bot {
	return &Bot{
		client: client,
		roster: NewRoster(),
		brain:  NewBrain(config.Bot.Difficulties[difficulty], seed),
		logger: logger.Named("bot"),
	}
}

// Run sends one input per frame until ctx is done.
func (b *Bot) Run(ctx context.Context, frame time.Duration) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if b.client.State() == StateError {
			return b.client.LastError()
		}
		if b.client.State() != StateJoinedGame {
			continue
		}

		if snap := b.client.LatestWorld(); snap != nil {
			b.roster.Apply(*snap)
		}
		for _, d := range b.client.DrainDeathEvents() {
			if netconfig.ClientID(d.VictimID) == b.client.ClientID() {
				b.logger.Info("died", zap.Int("killer", d.KillerID), zap.Int("score", b.client.Score()))
			}
		}

		self, ok := b.roster.Get(b.client.NetworkID())
		if !ok {
			continue
		}
		target, hasTarget := b.roster.Nearest(self.NetworkID, self.X, self.Y)
		in := b.brain.Decide(self, target, hasTarget)
		if err := b.client.SendMessage(in); err != nil {
			b.logger.Debug("send input", zap.Error(err))
		}
	}
}

// Brain turns roster views into inputs. It only changes its mind every
// ReactionDelay frames.
type Brain struct {
	cfg  config.BotDifficultyConfig
	rng  *rand.Rand
	seq  uint32
	wait int
	last messages.PlayerInput
}

func NewBrain(cfg config.BotDifficultyConfig, seed int64) *Brain {
	return &Brain{
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(seed)),
		last: messages.NewPlayerInput(0),
	}
}

// Decide returns the input for the next frame.
func (b *Brain) Decide(self, target CharacterView, hasTarget bool) messages.PlayerInput {
	b.seq++
	if b.wait > 0 {
		b.wait--
		in := b.last
		in.Sequence = b.seq
		in.Timestamp = time.Now().UnixMilli()
		return in
	}
	b.wait = b.cfg.ReactionDelay

	in := messages.NewPlayerInput(b.seq)
	in.Timestamp = time.Now().UnixMilli()
	if !self.Alive {
		b.last = in
		return in
	}

	if b.rng.Float64() < b.cfg.JumpChance {
		in.Actions[netconfig.ActionJump] = true
	}

	if !hasTarget {
		in.Direction = []int{-1, 1}[b.rng.Intn(2)]
		b.last = in
		return in
	}

	dx, dy := target.X-self.X, target.Y-self.Y
	dist := math.Hypot(dx, dy)
	if dist <= b.cfg.ChaseRange && math.Abs(dx) > 1 {
		if dx < 0 {
			in.Direction = -1
		} else {
			in.Direction = 1
		}
	}
	if dist <= b.cfg.FireRange {
		angle := math.Atan2(dy, dx) + (b.rng.Float64()*2-1)*b.cfg.AimJitter
		in.AimX, in.AimY = math.Cos(angle), math.Sin(angle)
		in.Actions[netconfig.ActionFire] = true
	}
	b.last = in
	return in
}
