package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/amterp/flagmaker/internal/store"
	"github.com/amterp/flagmaker/testutil"
)

func TestConfigReloader_AppliesConfig(t *testing.T) {
	paths := testutil.TempConfigDir(t)
	testutil.WriteConfig(t, paths, testutil.ConfigBody(`
palette = ["123456"]

[[templates]]
name = "Team"
colors = ["112233", "445566"]
`))

	cfg := testutil.TestConfig()
	session := NewSession(cfg, nil)
	handler := NewHandler(session, cfg)
	hub := NewWebSocketHub(nil)
	client := &WebSocketClient{hub: hub, send: make(chan []byte, 10)}
	hub.addClient(client)

	reloader := &configReloader{
		store:   store.NewConfigStore(paths),
		handler: handler,
		hub:     hub,
	}
	reloader.OnConfigChange(ConfigChange{Type: ConfigChangeWritten, Path: paths.ConfigPath()})

	templates := handler.config().AllTemplates()
	if last := templates[len(templates)-1]; last.Name != "Team" {
		t.Errorf("Last template = %q, want Team", last.Name)
	}

	session.Controller.Initialize()
	presets := session.Controller.State().Presets
	if last := presets[len(presets)-1]; last != "123456" {
		t.Errorf("Last preset = %q, want 123456", last)
	}

	select {
	case msg := <-client.send:
		var received WebSocketMessage
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if received.Type != MessageConfigReloaded {
			t.Errorf("Type = %q, want %q", received.Type, MessageConfigReloaded)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Did not receive config message")
	}
}

func TestConfigReloader_KeepsConfigOnError(t *testing.T) {
	paths := testutil.TempConfigDir(t)
	testutil.WriteConfig(t, paths, "port = [not toml")

	cfg := testutil.TestConfig()
	handler := NewHandler(NewSession(cfg, nil), cfg)
	hub := NewWebSocketHub(nil)
	client := &WebSocketClient{hub: hub, send: make(chan []byte, 10)}
	hub.addClient(client)

	reloader := &configReloader{
		store:   store.NewConfigStore(paths),
		handler: handler,
		hub:     hub,
	}
	reloader.OnConfigChange(ConfigChange{Type: ConfigChangeWritten, Path: paths.ConfigPath()})

	if handler.config() != cfg {
		t.Error("Broken config should not replace the current one")
	}
	if len(client.send) != 0 {
		t.Error("Broken config should not notify clients")
	}
}

func TestNewServer_WithoutConfigStore(t *testing.T) {
	cfg := testutil.TestConfig()
	server := NewServer(NewHandler(NewSession(cfg, nil), cfg), 0, nil)

	if server.watcher != nil {
		t.Error("Expected no watcher without a config store")
	}
	if server.wsHub == nil {
		t.Error("Expected a WebSocket hub")
	}
}
