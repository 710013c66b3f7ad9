package sessions

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StatsHub pushes fleet-wide session stats to connected admin dashboards.
// One connection per admin; a reconnect displaces the previous one.
type StatsHub struct {
	service     *Service
	connections map[int64]*websocket.Conn
	mutex       sync.RWMutex
}

// StatsEvent is the frame pushed to dashboard clients.
type StatsEvent struct {
	Type  string      `json:"type"`
	At    time.Time   `json:"at"`
	Stats interface{} `json:"stats"`
}

func NewStatsHub(service *Service) *StatsHub {
	return &StatsHub{
		service:     service,
		connections: make(map[int64]*websocket.Conn),
	}
}

func (h *StatsHub) Register(adminID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if oldConn, exists := h.connections[adminID]; exists && oldConn != nil {
		_ = oldConn.Close()
	}

	h.connections[adminID] = conn
}

func (h *StatsHub) Unregister(adminID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[adminID]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, adminID)
	}
}

func (h *StatsHub) ConnectedCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

// Broadcast sends the event to every connected dashboard. A failed write
// drops that connection.
func (h *StatsHub) Broadcast(event StatsEvent) {
	h.mutex.RLock()
	ids := make([]int64, 0, len(h.connections))
	for id := range h.connections {
		ids = append(ids, id)
	}
	h.mutex.RUnlock()

	for _, id := range ids {
		h.mutex.RLock()
		conn := h.connections[id]
		h.mutex.RUnlock()
		if conn == nil {
			continue
		}
		if err := conn.WriteJSON(event); err != nil {
			h.Unregister(id)
		}
	}
}

// Run polls session stats on the given interval and broadcasts to all
// connected dashboards until ctx is cancelled. Intended as a goroutine
// started from main.
func (h *StatsHub) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Close()
			return
		case <-ticker.C:
			if h.ConnectedCount() == 0 {
				continue
			}
			stats, err := h.service.Stats(ctx)
			if err != nil {
				log.Printf("stats broadcast skipped: %v", err)
				continue
			}
			h.Broadcast(StatsEvent{Type: "session_stats", At: time.Now(), Stats: stats})
		}
	}
}

func (h *StatsHub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
