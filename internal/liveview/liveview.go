// Package liveview streams VM state to connected browsers over a
// websocket. A frame is pushed only at budget-slice boundaries — i.e.
// between VM.Run calls — never mid instruction, so a viewer always sees a
// consistent (pc, sp, tape) snapshot.
package liveview

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Frame is one broadcast snapshot.
type Frame struct {
	PC           int     `json:"pc"`
	SP           int     `json:"sp"`
	Instructions uint64  `json:"instructions"`
	Tape         []int32 `json:"tape,omitempty"`
	Halted       bool    `json:"halted"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server fans a Frame out to every connected viewer.
type Server struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewServer returns an empty, ready-to-use broadcaster.
func NewServer() *Server {
	return &Server{clients: make(map[*websocket.Conn]struct{})}
}

// Handler upgrades incoming HTTP connections and registers them as viewers.
func (s *Server) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("liveview: upgrade failed: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer s.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) remove(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// Broadcast pushes f to every connected viewer, dropping any that error.
func (s *Server) Broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		log.Printf("liveview: marshal frame: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}
