package core

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	cfg "github.com/automoto/bolt-arena/config"
	"github.com/automoto/bolt-arena/server/events"
	"github.com/automoto/bolt-arena/shared/gamemath"
	"github.com/automoto/bolt-arena/shared/messages"
	"github.com/automoto/bolt-arena/shared/netcomponents"
	"github.com/automoto/bolt-arena/shared/netconfig"
)

const (
	maxNameLen  = 16
	defaultName = "player"

	// reconnectWindow is how long a disconnected client may reclaim its
	// slot and score with its reconnect token.
	reconnectWindow = 30 * time.Second
)

// Conn is the part of a network client the server talks to.
// *router.NetworkClient satisfies it.
type Conn interface {
	Id() string
	SendMessage(msg any) error
}

// ServerOptions configures a Server.
type ServerOptions struct {
	Level    *ServerLevel
	Rotation *events.Rotation
	TickRate int
	Logger   *zap.Logger
	// Replicate registers characters with necs esync. Off in tests, which
	// have no component registry.
	Replicate bool
}

type session struct {
	conn    Conn
	client  netconfig.ClientID
	name    string
	token   string
	limiter *rate.Limiter
	joined  bool
}

type reservation struct {
	client netconfig.ClientID
	score  int
	until  int // tick
}

// Server manages the game state and client connections. Router callbacks
// run on necs goroutines and only enqueue commands; everything else runs on
// the game loop goroutine.
type Server struct {
	world     donburi.World
	arena     *Arena
	rotation  *events.Rotation
	loop      *GameLoop
	transport *transports.WsServerTransport
	logger    *zap.Logger
	replicate bool
	tickRate  int
	now       func() time.Time

	mu       sync.Mutex
	commands []func()

	tick         int
	sessions     map[string]*session
	reservations map[string]reservation

	// Read by the registration goroutine.
	players   atomic.Int32
	modifiers atomic.Pointer[[]string]
}

// NewServer creates a new game server
func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tickRate := opts.TickRate
	if tickRate <= 0 {
		tickRate = cfg.Server.TickRate
	}
	rotation := opts.Rotation
	if rotation == nil {
		rotation = events.NewRotation(events.Settings{}, logger)
	}

	world := donburi.NewWorld()
	s := &Server{
		world:        world,
		rotation:     rotation,
		logger:       logger.Named("server"),
		replicate:    opts.Replicate,
		tickRate:     tickRate,
		now:          time.Now,
		sessions:     make(map[string]*session),
		reservations: make(map[string]reservation),
	}

	arenaOpts := ArenaOptions{
		Modifiers: rotation,
		Broadcast: s.broadcast,
		TickRate:  tickRate,
		Logger:    logger,
	}
	if s.replicate {
		srvsync.UseEsync(world)
		arenaOpts.OnSpawn = func(entity *donburi.Entity) error {
			return srvsync.NetworkSync(world, entity,
				srvsync.WithInterp(netcomponents.NetPosition, netcomponents.NetVelocity),
				netcomponents.NetCharacter,
			)
		}
	}
	s.arena = NewArena(world, opts.Level, arenaOpts)
	s.loop = NewGameLoop(s, tickRate, logger)
	s.publishModifiers()
	return s
}

// Listen registers the router callbacks and serves websocket clients on
// port. It blocks until the transport fails.
func (s *Server) Listen(port uint) error {
	s.setupRouterCallbacks()
	s.transport = transports.NewWsServerTransport(port, "", nil)
	s.logger.Info("listening", zap.Uint("port", port))
	return s.transport.Start()
}

// Loop returns the server's game loop.
func (s *Server) Loop() *GameLoop { return s.loop }

// Arena returns the server's arena. Only safe on the loop goroutine.
func (s *Server) Arena() *Arena { return s.arena }

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.logger.Debug("client connected", zap.String("conn", client.Id()))
		s.enqueue(func() { s.handleConnect(client) })
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			s.logger.Debug("client disconnected", zap.String("conn", client.Id()), zap.Error(err))
		}
		s.enqueue(func() { s.handleDisconnect(client) })
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.enqueue(func() { s.handleJoin(client, req) })
	})

	router.On(func(client *router.NetworkClient, input messages.PlayerInput) {
		s.enqueue(func() { s.handleInput(client, input) })
	})

	router.On(func(client *router.NetworkClient, req messages.BuildRequest) {
		s.enqueue(func() { s.handleBuild(client, req) })
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.logger.Warn("client error", zap.String("conn", client.Id()), zap.Error(err))
	})
}

func (s *Server) enqueue(cmd func()) {
	s.mu.Lock()
	s.commands = append(s.commands, cmd)
	s.mu.Unlock()
}

// ProcessCommands runs every command queued by the router callbacks.
func (s *Server) ProcessCommands() {
	s.mu.Lock()
	cmds := s.commands
	s.commands = nil
	s.mu.Unlock()

	for _, cmd := range cmds {
		cmd()
	}
}

// Step advances the game by one tick.
func (s *Server) Step() {
	s.tick++
	s.arena.BeginTick(s.tick)
	s.ProcessCommands()
	s.expireReservations()

	if s.rotation.Tick(s.tick) {
		active := s.rotation.Active()
		s.logger.Info("modifiers changed", zap.Stringers("active", active))
		s.broadcast(messages.ModifierChangeEvent{Active: active})
		s.publishModifiers()
	}

	s.arena.Tick(s.tick)
	s.sendSnapshots()
}

func (s *Server) handleConnect(conn Conn) {
	if _, ok := s.sessions[conn.Id()]; ok {
		return
	}
	s.sessions[conn.Id()] = &session{
		conn:    conn,
		client:  netconfig.NoClient,
		limiter: rate.NewLimiter(rate.Every(cfg.Bolt.FireDelay.Duration), 1),
	}
}

func (s *Server) handleJoin(conn Conn, req messages.JoinRequest) {
	sess, ok := s.sessions[conn.Id()]
	if !ok {
		s.handleConnect(conn)
		sess = s.sessions[conn.Id()]
	}
	if sess.joined {
		return
	}

	if v := cfg.Server.Version; v != "" && req.Version != v {
		s.reject(conn, "version mismatch: server requires "+v)
		return
	}

	client, score, reclaimed := s.claimSlot(req.ReconnectToken)
	if client == netconfig.NoClient {
		s.reject(conn, "server full")
		return
	}

	name := sanitizeName(req.PlayerName)
	c, err := s.arena.AddCharacter(client, name)
	if err != nil {
		s.logger.Error("add character", zap.Int("client", int(client)), zap.Error(err))
		s.reject(conn, "could not spawn")
		return
	}
	if reclaimed {
		c.state().Score = score
	}

	sess.client = client
	sess.name = name
	sess.token = uuid.NewString()
	sess.joined = true
	s.players.Add(1)

	var netID esync.NetworkId
	if id := esync.GetNetworkId(c.entry()); id != nil {
		netID = *id
	}
	s.send(sess, messages.JoinAccepted{
		NetworkID:      netID,
		ClientID:       int(client),
		ReconnectToken: sess.token,
		ServerName:     cfg.Server.Name,
		TickRate:       s.tickRate,
		Level:          s.arena.Level().Name,
	})
	s.send(sess, messages.ModifierChangeEvent{Active: s.rotation.Active()})
	s.arena.broadcastScores()

	s.logger.Info("player joined",
		zap.Int("client", int(client)),
		zap.String("name", name),
		zap.Bool("reconnect", reclaimed))
}

func (s *Server) reject(conn Conn, reason string) {
	if err := conn.SendMessage(messages.JoinRejected{Reason: reason}); err != nil {
		s.logger.Debug("send join rejection", zap.String("conn", conn.Id()), zap.Error(err))
	}
	s.logger.Info("join rejected", zap.String("conn", conn.Id()), zap.String("reason", reason))
}

// claimSlot returns the slot reserved for token, or else the lowest free
// slot. It returns NoClient when the server is full.
func (s *Server) claimSlot(token string) (netconfig.ClientID, int, bool) {
	if r, ok := s.reservations[token]; ok && token != "" {
		delete(s.reservations, token)
		if !s.slotTaken(r.client) {
			return r.client, r.score, true
		}
	}
	for id := netconfig.ClientID(0); int(id) < cfg.Server.MaxPlayers; id++ {
		if !s.slotTaken(id) {
			return id, 0, false
		}
	}
	return netconfig.NoClient, 0, false
}

func (s *Server) slotTaken(id netconfig.ClientID) bool {
	if s.arena.Character(id) != nil {
		return true
	}
	for _, r := range s.reservations {
		if r.client == id {
			return true
		}
	}
	return false
}

func (s *Server) expireReservations() {
	for token, r := range s.reservations {
		if s.tick >= r.until {
			delete(s.reservations, token)
		}
	}
}

func (s *Server) handleDisconnect(conn Conn) {
	sess, ok := s.sessions[conn.Id()]
	if !ok {
		return
	}
	delete(s.sessions, conn.Id())
	if !sess.joined {
		return
	}

	if c := s.arena.Character(sess.client); c != nil {
		s.reservations[sess.token] = reservation{
			client: sess.client,
			score:  c.Score(),
			until:  s.tick + events.IntervalTicks(reconnectWindow, s.tickRate),
		}
	}
	s.arena.RemoveCharacter(sess.client)
	s.players.Add(-1)
	s.arena.broadcastScores()
	s.logger.Info("player left", zap.Int("client", int(sess.client)), zap.String("name", sess.name))
}

func (s *Server) joined(conn Conn) (*session, *Character) {
	sess, ok := s.sessions[conn.Id()]
	if !ok || !sess.joined {
		return nil, nil
	}
	return sess, s.arena.Character(sess.client)
}

func (s *Server) handleInput(conn Conn, in messages.PlayerInput) {
	sess, c := s.joined(conn)
	if c == nil {
		return
	}
	c.SetInput(in)

	if !in.Pressed(netconfig.ActionFire) || !c.Alive() {
		return
	}
	if !sess.limiter.AllowN(s.now(), 1) {
		return
	}
	if _, err := s.arena.Fire(c, gamemath.V(in.AimX, in.AimY)); err != nil {
		s.logger.Debug("fire", zap.Int("client", int(sess.client)), zap.Error(err))
	}
}

func (s *Server) handleBuild(conn Conn, req messages.BuildRequest) {
	sess, c := s.joined(conn)
	if c == nil {
		return
	}
	var err error
	switch req.Kind {
	case netconfig.BuildTurret:
		err = s.arena.BuildTurret(sess.client, gamemath.V(req.X, req.Y))
	case netconfig.BuildWall:
		err = s.arena.BuildWall(sess.client, gamemath.V(req.X, req.Y), gamemath.V(req.ToX, req.ToY))
	default:
		s.logger.Debug("unknown build kind", zap.Int("kind", int(req.Kind)))
		return
	}
	if err != nil {
		s.logger.Debug("build rejected", zap.Int("client", int(sess.client)), zap.Error(err))
	}
}

func (s *Server) send(sess *session, msg any) {
	if err := sess.conn.SendMessage(msg); err != nil {
		s.logger.Debug("send", zap.Int("client", int(sess.client)), zap.Error(err))
	}
}

func (s *Server) broadcast(msg any) {
	for _, sess := range s.sessions {
		if sess.joined {
			s.send(sess, msg)
		}
	}
}

// sendSnapshots sends each joined client the bolts visible from its
// character. Dead characters keep viewing from where they died.
func (s *Server) sendSnapshots() {
	for _, sess := range s.sessions {
		if !sess.joined {
			continue
		}
		c := s.arena.Character(sess.client)
		if c == nil {
			continue
		}
		s.send(sess, s.arena.Snapshot(s.tick, ObserverAt(c.Pos())))
	}
}

// PlayerCount returns the number of joined players. Safe for concurrent use.
func (s *Server) PlayerCount() int {
	return int(s.players.Load())
}

// Modifiers returns the names of the active modifiers. Safe for concurrent
// use.
func (s *Server) Modifiers() []string {
	if names := s.modifiers.Load(); names != nil {
		return *names
	}
	return nil
}

func (s *Server) publishModifiers() {
	active := s.rotation.Active()
	names := make([]string, len(active))
	for i, m := range active {
		names[i] = m.String()
	}
	s.modifiers.Store(&names)
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || !utf8.ValidString(name) {
		return defaultName
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	return name
}
