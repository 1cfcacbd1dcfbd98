// Package server streams the built globe to browser clients over a websocket
// and relays their pointer, touch and wheel input back to the camera.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"planetviewer/camera"
	"planetviewer/frame"
	"planetviewer/mesh"
)

const (
	writeWait = 5 * time.Second
	// maxMessageSize bounds one client input message.
	maxMessageSize = 4096
)

// Server implements frame.Renderer by broadcasting each scene to every
// connected client.
type Server struct {
	queue    *camera.Queue
	upgrader websocket.Upgrader

	// encoded once; the meshes never change after startup
	meshPayload []byte

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex

	frames int
}

// New encodes the meshes and returns a server that pushes client input onto queue.
func New(meshes *mesh.Meshes, queue *camera.Queue) (*Server, error) {
	payload, err := json.Marshal(MeshMessage{
		Type:  "mesh",
		Globe: meshData(meshes.Globe),
		Ocean: meshData(meshes.Ocean),
	})
	if err != nil {
		return nil, err
	}
	return &Server{
		queue: queue,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		meshPayload: payload,
		clients:     make(map[*websocket.Conn]*sync.Mutex),
	}, nil
}

// Handler serves the websocket at /ws and the mesh document at /mesh.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/mesh", s.serveMesh)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) serveMesh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.meshPayload)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	// Held across registration so no frame can go out before the mesh.
	connMutex := &sync.Mutex{}
	connMutex.Lock()
	s.clientsMu.Lock()
	s.clients[conn] = connMutex
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	err = s.write(conn, s.meshPayload)
	connMutex.Unlock()
	if err != nil {
		log.Println("WebSocket write error:", err)
		return
	}

	for {
		var msg InputMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("WebSocket read error:", err)
			}
			return
		}
		in, err := msg.Input()
		if err != nil {
			log.Printf("Ignoring client input: %v", err)
			continue
		}
		s.queue.Push(in)
	}
}

func (s *Server) write(conn *websocket.Conn, payload []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// Render broadcasts the scene. Clients that fail a write are dropped.
func (s *Server) Render(scene frame.Scene) error {
	s.frames++
	payload, err := json.Marshal(frameMessage(s.frames, scene))
	if err != nil {
		return err
	}

	s.clientsMu.RLock()
	var failed []*websocket.Conn
	for conn, mu := range s.clients {
		mu.Lock()
		if err := s.write(conn, payload); err != nil {
			failed = append(failed, conn)
		}
		mu.Unlock()
	}
	s.clientsMu.RUnlock()

	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, conn := range failed {
			delete(s.clients, conn)
			conn.Close()
		}
		s.clientsMu.Unlock()
	}
	return nil
}

// ShouldClose never asks the loop to stop; the server runs until its context ends.
func (s *Server) ShouldClose() bool {
	return false
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
