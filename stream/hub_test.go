package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/vortex/config"
	"github.com/pthm-cable/vortex/game"
)

func newTestSim(t *testing.T) *game.Game {
	t.Helper()
	if err := config.Init(""); err != nil {
		t.Fatalf("config.Init: %v", err)
	}
	cfg := config.Cfg()
	cfg.Fluid.Size = 16
	cfg.Particles.Count = 50

	g, err := game.NewGameWithOptions(game.Options{Seed: 1, Headless: true})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

// attach registers a client with no connection so broadcasts can be observed.
func attach(h *Hub) *client {
	c := &client{send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func TestStepBroadcastsEverySendEvery(t *testing.T) {
	h := NewHub(newTestSim(t), config.ServerConfig{FrameRate: 60, SendEvery: 2})
	c := attach(h)

	if err := h.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	select {
	case <-c.send:
		t.Fatal("frame sent on tick 1 with send_every 2")
	default:
	}

	if err := h.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	select {
	case msg := <-c.send:
		f, err := DecodeFrame(msg)
		if err != nil {
			t.Fatalf("DecodeFrame: %v", err)
		}
		if f.Tick != 2 || f.Count != 50 || f.Size != 16 {
			t.Errorf("frame header = tick %d count %d size %d", f.Tick, f.Count, f.Size)
		}
		if len(f.Alpha) != 16*16 {
			t.Errorf("alpha len = %d, want 256", len(f.Alpha))
		}
	default:
		t.Fatal("no frame on tick 2")
	}
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub(newTestSim(t), config.ServerConfig{FrameRate: 60, SendEvery: 1})
	c := attach(h)

	for i := 0; i < sendBuffer+3; i++ {
		if err := h.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if len(c.send) != sendBuffer {
		t.Errorf("queued = %d, want %d", len(c.send), sendBuffer)
	}
}

func TestHandleInputInjects(t *testing.T) {
	sim := newTestSim(t)
	h := NewHub(sim, config.ServerConfig{FrameRate: 60, SendEvery: 1})

	msg := EncodeInput(InputMessage{CursorX: 0.5, CursorY: 0.5, Flags: FlagPresent})
	if err := h.handleInput(msg); err != nil {
		t.Fatalf("handleInput: %v", err)
	}
	if err := h.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if m := sim.Fluid().Mass(); m <= 0 {
		t.Errorf("mass = %v after centered input, want > 0", m)
	}
}

func TestScrollAccumulates(t *testing.T) {
	h := NewHub(newTestSim(t), config.ServerConfig{FrameRate: 60})

	for i := 0; i < 2; i++ {
		if err := h.handleInput(EncodeInput(InputMessage{Scroll: 3})); err != nil {
			t.Fatalf("handleInput: %v", err)
		}
	}
	if got := h.pending().Scroll; got != 6 {
		t.Errorf("Scroll = %v, want 6", got)
	}
	if got := h.pending().Scroll; got != 0 {
		t.Errorf("Scroll after drain = %v, want 0", got)
	}
}

func TestServeHTTP(t *testing.T) {
	h := NewHub(newTestSim(t), config.ServerConfig{FrameRate: 60, SendEvery: 1, MaxClients: 1})
	srv := httptest.NewServer(h)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	mt, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading palette: %v", err)
	}
	if mt != websocket.BinaryMessage || msg[0] != OpCodePalette {
		t.Fatalf("first message type %d opcode 0x%02x, want palette", mt, msg[0])
	}
	if h.Clients() != 1 {
		t.Fatalf("Clients() = %d, want 1", h.Clients())
	}

	// Slot is taken, so a second client is refused before upgrade
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("second Dial succeeded with max_clients 1")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("second Dial response = %v, want 503", resp)
	}

	if err := h.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	_, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	f, err := DecodeFrame(msg)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if f.Tick != 1 {
		t.Errorf("frame tick = %d, want 1", f.Tick)
	}
}
