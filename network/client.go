// Package network is the client side of the game protocol, used by the
// headless bot.
package network

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"go.uber.org/zap"

	"github.com/automoto/bolt-arena/shared/messages"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

var errNotConnected = errors.New("not connected")

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Client manages a WebSocket connection to the game server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu     sync.RWMutex
	logger *zap.Logger

	state          ClientState
	lastError      error
	networkID      esync.NetworkId
	clientID       netconfig.ClientID
	reconnectToken string
	serverName     string
	tickRate       int
	level          string
	modifiers      []netconfig.Modifier
	scores         map[int]int
	conn           *websocket.Conn

	worldCh chan esync.WorldSnapshot // size-1 buffered; latest wins
	boltsCh chan messages.Snapshot   // size-1 buffered; latest wins
	hitCh   chan messages.HitEvent
	deathCh chan messages.DeathEvent
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		logger:   logger.Named("client"),
		state:    StateDisconnected,
		clientID: netconfig.NoClient,
		worldCh:  make(chan esync.WorldSnapshot, 1),
		boltsCh:  make(chan messages.Snapshot, 1),
		hitCh:    make(chan messages.HitEvent, 16),
		deathCh:  make(chan messages.DeathEvent, 16),
	}
}

// Connect dials the server in a background goroutine and initiates the join
// handshake. A non-empty reconnect token from an earlier session reclaims
// that session's slot.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	token := c.reconnectToken
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		c.logger.Info("connected to server", zap.String("address", address))
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.SendMessage(messages.JoinRequest{
			Version:        version,
			PlayerName:     playerName,
			ReconnectToken: token,
		})
		if err != nil {
			c.setError(fmt.Errorf("send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.logger.Info("join accepted",
			zap.Int("client", msg.ClientID),
			zap.String("server", msg.ServerName),
			zap.String("level", msg.Level),
			zap.Int("tick_rate", msg.TickRate))
		c.mu.Lock()
		c.networkID = msg.NetworkID
		c.clientID = netconfig.ClientID(msg.ClientID)
		c.reconnectToken = msg.ReconnectToken
		c.serverName = msg.ServerName
		c.tickRate = msg.TickRate
		c.level = msg.Level
		c.state = StateJoinedGame
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		c.logger.Warn("join rejected", zap.String("reason", msg.Reason))
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		pushLatest(c.worldCh, snapshot)
	})

	router.On(func(_ *router.NetworkClient, snapshot messages.Snapshot) {
		pushLatest(c.boltsCh, snapshot)
	})

	router.On(func(_ *router.NetworkClient, evt messages.ModifierChangeEvent) {
		c.logger.Info("modifiers changed", zap.Stringers("active", evt.Active))
		c.mu.Lock()
		c.modifiers = evt.Active
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, evt messages.ScoreUpdateEvent) {
		c.mu.Lock()
		c.scores = evt.Scores
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, evt messages.HitEvent) {
		pushOrDrop(c.hitCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.DeathEvent) {
		pushOrDrop(c.deathCh, evt)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		c.logger.Info("disconnected", zap.Error(err))
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		c.logger.Warn("router error", zap.Error(err))
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

func (c *Client) ClientID() netconfig.ClientID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

func (c *Client) Level() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

// Modifiers returns the modifiers last announced by the server.
func (c *Client) Modifiers() []netconfig.Modifier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]netconfig.Modifier(nil), c.modifiers...)
}

// Score returns the client's own score from the last score update.
func (c *Client) Score() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scores[int(c.clientID)]
}

// LatestWorld returns the most recent replicated world snapshot, or nil.
// Non-blocking.
func (c *Client) LatestWorld() *esync.WorldSnapshot {
	select {
	case snap := <-c.worldCh:
		return &snap
	default:
		return nil
	}
}

// LatestBolts returns the most recent bolt snapshot, or nil. Non-blocking.
func (c *Client) LatestBolts() *messages.Snapshot {
	select {
	case snap := <-c.boltsCh:
		return &snap
	default:
		return nil
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return errNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// DrainHitEvents returns all pending hit events, non-blocking.
func (c *Client) DrainHitEvents() []messages.HitEvent {
	return drainChan(c.hitCh)
}

// DrainDeathEvents returns all pending death events, non-blocking.
func (c *Client) DrainDeathEvents() []messages.DeathEvent {
	return drainChan(c.deathCh)
}

func pushLatest[T any](ch chan T, v T) {
	select { // drain stale, push latest
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

func pushOrDrop[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
