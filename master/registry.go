// Package master is the server browser: game servers register and heartbeat,
// clients list the servers seen within the TTL.
package master

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServerInfo describes a game server visible to clients.
type ServerInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Players    int      `json:"players"`
	MaxPlayers int      `json:"maxPlayers"`
	Version    string   `json:"version"`
	Region     string   `json:"region"`
	Level      string   `json:"level"`
	Modifiers  []string `json:"modifiers"`
}

type serverRecord struct {
	ServerInfo
	LastSeen time.Time
}

// Registry is an in-memory store of active game servers with TTL-based expiry.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]*serverRecord
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewRegistry(ttl time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		servers: make(map[string]*serverRecord),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.Named("registry"),
	}
}

func (r *Registry) Register(info ServerInfo) string {
	info.ID = uuid.NewString()
	info.Modifiers = slices.Clone(info.Modifiers)

	r.mu.Lock()
	r.servers[info.ID] = &serverRecord{
		ServerInfo: info,
		LastSeen:   r.now(),
	}
	r.mu.Unlock()

	return info.ID
}

// Heartbeat refreshes a server's TTL and live fields. It reports false for
// unknown or expired ids so the server knows to register again.
func (r *Registry) Heartbeat(id string, players int, modifiers []string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.servers[id]
	if !ok {
		return false
	}
	now := r.now()
	if now.Sub(rec.LastSeen) >= r.ttl {
		delete(r.servers, id)
		return false
	}
	rec.LastSeen = now
	rec.Players = players
	rec.Modifiers = slices.Clone(modifiers)
	return true
}

// List returns the live servers sorted by region, then name.
func (r *Registry) List() []ServerInfo {
	r.mu.RLock()
	result := make([]ServerInfo, 0, len(r.servers))
	for _, rec := range r.servers {
		result = append(result, rec.ServerInfo)
	}
	r.mu.RUnlock()

	slices.SortFunc(result, func(a, b ServerInfo) int {
		if c := strings.Compare(a.Region, b.Region); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Expire drops every server not seen within the TTL and returns how many
// were removed.
func (r *Registry) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, rec := range r.servers {
		if now.Sub(rec.LastSeen) >= r.ttl {
			r.logger.Info("expired server",
				zap.String("id", id),
				zap.String("name", rec.Name),
				zap.Duration("last_seen", now.Sub(rec.LastSeen).Round(time.Second)))
			delete(r.servers, id)
			n++
		}
	}
	return n
}

// Run expires stale servers every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Expire()
		}
	}
}
