package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/vortex/camera"
	"github.com/pthm-cable/vortex/config"
	"github.com/pthm-cable/vortex/fluid"
	"github.com/pthm-cable/vortex/game"
	"github.com/pthm-cable/vortex/particles"
)

// Simulation is the frame driver the hub steps.
type Simulation interface {
	Frame(dt float32, in game.Input) error
	Tick() int32
	Fluid() *fluid.Simulator
	Particles() *particles.System
	Camera() *camera.Camera
}

// sendBuffer is the per-client queue depth; frames are dropped when full.
const sendBuffer = 4

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub steps one simulation and broadcasts frames to every connected client.
// Input from all clients is merged: the latest pointer wins and scroll
// deltas accumulate until the next frame.
type Hub struct {
	sim        Simulation
	dt         float32
	frameRate  int
	sendEvery  int
	maxClients int
	upgrader   websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]struct{}
	reserved int
	input    InputMessage
	scroll   float32

	alpha []byte
	tick  atomic.Int32
}

// NewHub creates a hub over sim using the server section of the config.
func NewHub(sim Simulation, cfg config.ServerConfig) *Hub {
	rate := max(cfg.FrameRate, 1)
	return &Hub{
		sim:        sim,
		dt:         1 / float32(rate),
		frameRate:  rate,
		sendEvery:  max(cfg.SendEvery, 1),
		maxClients: cfg.MaxClients,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.reserve() {
		http.Error(w, "too many clients", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.release()
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(InputMessageSize * 4)

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	c.send <- EncodePalette()

	h.mu.Lock()
	h.reserved--
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	slog.Info("client connected", "remote", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c)
}

// reserve claims a client slot before the handshake completes.
func (h *Hub) reserve() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxClients > 0 && len(h.clients)+h.reserved >= h.maxClients {
		return false
	}
	h.reserved++
	return true
}

func (h *Hub) release() {
	h.mu.Lock()
	h.reserved--
	h.mu.Unlock()
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	for {
		mt, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("client read failed", "error", err)
			}
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		if err := h.handleInput(msg); err != nil {
			slog.Debug("bad input message", "error", err)
		}
	}
}

func (h *Hub) writePump(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			slog.Warn("client write failed", "error", err)
			c.conn.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

// drop unregisters c and stops its writer.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	slog.Info("client disconnected")
}

// handleInput merges one client message into the pending input.
func (h *Hub) handleInput(msg []byte) error {
	in, err := DecodeInput(msg)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.input = in
	h.scroll += in.Scroll
	h.mu.Unlock()
	return nil
}

// pending returns the merged input in screen pixels and clears the scroll.
func (h *Hub) pending() game.Input {
	h.mu.Lock()
	in := h.input
	scroll := h.scroll
	h.scroll = 0
	h.mu.Unlock()

	cam := h.sim.Camera()
	return game.Input{
		CursorX: in.CursorX * cam.ViewportW,
		CursorY: in.CursorY * cam.ViewportH,
		Present: in.Present(),
		Scroll:  scroll,
	}
}

// Step runs one frame and broadcasts it every sendEvery ticks.
func (h *Hub) Step() error {
	if err := h.sim.Frame(h.dt, h.pending()); err != nil {
		return err
	}
	tick := h.sim.Tick()
	h.tick.Store(tick)
	if int(tick)%h.sendEvery != 0 {
		return nil
	}

	sim := h.sim.Fluid()
	ps := h.sim.Particles()
	h.alpha = fluid.AlphaBytes(h.alpha, sim.Density())
	// Each broadcast gets its own buffer; writers hold it until sent.
	msg, err := EncodeFrame(nil, uint32(tick), ps.Positions(), ps.Sizes(), h.alpha, sim.Size())
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	h.broadcast(msg)
	return nil
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slog.Debug("client queue full, dropping frame")
		}
	}
}

// Loop steps the simulation at the configured frame rate until ctx ends.
func (h *Hub) Loop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(h.frameRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case <-ticker.C:
			if err := h.Step(); err != nil {
				h.closeAll()
				return fmt.Errorf("stepping simulation: %w", err)
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Run serves the hub at addr under /ws and steps it until ctx is cancelled
// or either side fails.
func Run(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok tick=%d clients=%d\n", h.tick.Load(), h.Clients())
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("stream listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return h.Loop(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
