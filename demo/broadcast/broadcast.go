// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: demo/broadcast/broadcast.go
// Summary: A remote state-feed consumer: after every Manager
// transition, the published State is serialized and pushed to
// connected websocket clients. Upgrade/ping-pong/write-deadline handling
// is adapted from niceyeti-tabular's tabular/server/fastview.client, in
// the push-model spirit of that package but simplified to a single
// broadcast hub rather than one goroutine group per client.

package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/framegrace/vcore"
	"github.com/framegrace/vcore/state"
)

const (
	writeWait  = 1 * time.Second
	pingPeriod = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Frame is the wire representation of a State snapshot: just enough for
// a remote observer to know what changed — never the cells themselves,
// which are a host.Widget concern this package has no business
// serializing.
type Frame struct {
	RangeMin     int  `json:"range_min"`
	RangeMax     int  `json:"range_max"`
	Count        int  `json:"count"`
	CellsChanged bool `json:"cells_changed"`
}

// FrameOf converts a State into its wire Frame.
func FrameOf[C vcore.Cell](s state.State[C]) Frame {
	f := Frame{Count: len(s.Cells), CellsChanged: s.CellsChanged, RangeMin: -1, RangeMax: -1}
	if s.Range.IsValid() {
		f.RangeMin, f.RangeMax = int(s.Range.Min), int(s.Range.Max)
	}
	return f
}

// Hub fans Frames out to every connected websocket client. The zero
// value is not usable; construct with NewHub.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub returns an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{log: logger, clients: map[*websocket.Conn]struct{}{}}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection until it errors out or the peer disconnects. Intended to be
// mounted at a path like "/state".
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("broadcast: upgrade failed", "error", err)
		return
	}
	h.register(conn)
	defer h.unregister(conn)

	conn.SetReadDeadline(time.Now().Add(pingPeriod * 3))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pingPeriod * 3))
		return nil
	})
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	c.Close()
}

// Publish pushes f to every connected client, dropping (and
// unregistering) any that fail to accept the write within writeWait.
func (h *Hub) Publish(f Frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		h.log.Warn("broadcast: marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.unregister(c)
		}
	}
}

// PublishState is a convenience wrapper combining FrameOf and Publish,
// the call a Manager's observer makes after every transition.
func PublishState[C vcore.Cell](h *Hub, s state.State[C]) {
	h.Publish(FrameOf(s))
}
