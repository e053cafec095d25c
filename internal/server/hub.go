package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// upgrader upgrades preview-page connections to WebSocket. Origin checks are
// skipped: the server binds to localhost for a single author.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// hub tracks connected preview pages and pushes reload notifications to them.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logf    func(format string, args ...any)
}

func newHub(logf func(format string, args ...any)) *hub {
	return &hub{
		clients: make(map[*websocket.Conn]bool),
		logf:    logf,
	}
}

func (h *hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	h.logf("preview client connected")
}

func (h *hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
		h.logf("preview client disconnected")
	}
}

// broadcast sends message to every connected page. Clients that fail a write
// are assumed gone and dropped.
func (h *hub) broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logf("dropping preview client: %v", err)
			_ = client.Close()
			delete(h.clients, client)
		}
	}
}

// closeAll disconnects every client, used during shutdown.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		_ = client.Close()
		delete(h.clients, client)
	}
}

// serveWs upgrades the request and keeps the connection registered until the
// page closes it. Pages never send messages; the read loop only detects EOF.
func serveWs(h *hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logf("websocket upgrade: %v", err)
		return
	}
	h.register(conn)
	defer h.unregister(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
