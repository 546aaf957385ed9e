package master

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRegisterServer(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"valid", `{"name":"arena","address":"1.2.3.4:7373","maxPlayers":8,"level":"arena"}`, http.StatusCreated},
		{"invalid json", `{"name":`, http.StatusBadRequest},
		{"missing address", `{"name":"arena"}`, http.StatusBadRequest},
		{"missing name", `{"address":"1.2.3.4:7373"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(time.Minute, zap.NewNop())
			mux := NewMux(reg, zap.NewNop())

			rec := do(t, mux, http.MethodPost, "/servers/register", tt.body)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.code, rec.Body)
			}
			if tt.code != http.StatusCreated {
				if len(reg.List()) != 0 {
					t.Error("rejected request registered a server")
				}
				return
			}

			var resp RegisterResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			list := reg.List()
			if len(list) != 1 || list[0].ID != resp.ID || list[0].Level != "arena" {
				t.Errorf("registry = %+v, response id %q", list, resp.ID)
			}
		})
	}
}

func TestHeartbeatHandler(t *testing.T) {
	reg := NewRegistry(time.Minute, zap.NewNop())
	mux := NewMux(reg, zap.NewNop())
	id := reg.Register(ServerInfo{Name: "arena", Address: "a"})

	rec := do(t, mux, http.MethodPost, "/servers/heartbeat", `{"id":"`+id+`","players":3,"modifiers":["glue"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := reg.List()[0]; got.Players != 3 {
		t.Errorf("players = %d, want 3", got.Players)
	}

	rec = do(t, mux, http.MethodPost, "/servers/heartbeat", `{"id":"nope"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
	rec = do(t, mux, http.MethodPost, "/servers/heartbeat", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d, want 400", rec.Code)
	}
}

func TestListServers(t *testing.T) {
	reg := NewRegistry(time.Minute, zap.NewNop())
	mux := NewMux(reg, zap.NewNop())

	rec := do(t, mux, http.MethodGet, "/servers", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty list body = %q, want []", rec.Body)
	}

	reg.Register(ServerInfo{Name: "arena", Address: "a", Modifiers: []string{"laser"}})
	rec = do(t, mux, http.MethodGet, "/servers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var list []ServerInfo
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Name != "arena" || list[0].Modifiers[0] != "laser" {
		t.Errorf("list = %+v", list)
	}

	if rec := do(t, mux, http.MethodPost, "/servers", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /servers status = %d, want 405", rec.Code)
	}
	if rec := do(t, mux, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}
