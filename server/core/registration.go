package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/automoto/bolt-arena/master"
)

const heartbeatInterval = 30 * time.Second

// ServerStatus is what the master server learns about a running server.
type ServerStatus interface {
	PlayerCount() int
	Modifiers() []string
}

// RegistrationInfo is the static part of a master server registration.
type RegistrationInfo struct {
	MasterURL  string
	Name       string
	Address    string
	Version    string
	Region     string
	Level      string
	MaxPlayers int
}

// Registration handles registering and heartbeating with the master server.
type Registration struct {
	info     RegistrationInfo
	status   ServerStatus
	client   *http.Client
	logger   *zap.Logger
	serverID string
}

func NewRegistration(info RegistrationInfo, status ServerStatus, logger *zap.Logger) *Registration {
	return &Registration{
		info:   info,
		status: status,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger.Named("registration"),
	}
}

// Run registers with the master server and heartbeats until ctx is done.
// Master failures are logged, never returned: the game keeps running
// without a listing.
func (r *Registration) Run(ctx context.Context) error {
	if err := r.register(ctx); err != nil {
		r.logger.Warn("initial registration failed", zap.Error(err))
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.sendHeartbeat(ctx); err != nil {
				r.logger.Warn("heartbeat failed", zap.Error(err))
			}
		}
	}
}

func (r *Registration) register(ctx context.Context) error {
	var result master.RegisterResponse
	status, err := r.post(ctx, "/servers/register", master.RegisterRequest{
		Name:       r.info.Name,
		Address:    r.info.Address,
		Players:    r.status.PlayerCount(),
		MaxPlayers: r.info.MaxPlayers,
		Version:    r.info.Version,
		Region:     r.info.Region,
		Level:      r.info.Level,
		Modifiers:  r.status.Modifiers(),
	}, &result)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("unexpected status: %d", status)
	}

	r.serverID = result.ID
	r.logger.Info("registered with master", zap.String("id", r.serverID))
	return nil
}

func (r *Registration) sendHeartbeat(ctx context.Context) error {
	if r.serverID == "" {
		return r.register(ctx)
	}

	status, err := r.post(ctx, "/servers/heartbeat", master.HeartbeatRequest{
		ID:        r.serverID,
		Players:   r.status.PlayerCount(),
		Modifiers: r.status.Modifiers(),
	}, nil)
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		r.logger.Info("master lost our registration, re-registering")
		return r.register(ctx)
	default:
		return fmt.Errorf("unexpected status: %d", status)
	}
}

func (r *Registration) post(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.info.MasterURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode: %w", err)
		}
	}
	return resp.StatusCode, nil
}
