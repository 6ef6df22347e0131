package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Publisher pushes an event to every connected client
type Publisher interface {
	Publish(event interface{})
}

// Hub fans stock events out to websocket clients. All client bookkeeping
// happens on the Run goroutine; the mutex guards ClientCount readers.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.add(conn)
		case conn := <-h.Unregister:
			h.remove(conn)
		case message := <-h.Broadcast:
			h.send(message)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mutex.Lock()
	h.Clients[conn] = true
	h.mutex.Unlock()
	h.log.Debug("WS client connected", zap.Int("clients", h.ClientCount()))
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.Clients[conn]; ok {
		delete(h.Clients, conn)
		conn.Close()
	}
}

func (h *Hub) send(message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.Clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Debug("WS client dropped", zap.Error(err))
			conn.Close()
			delete(h.Clients, conn)
		}
	}
}

// Publish marshals event and hands it to the Run loop without blocking the caller
func (h *Hub) Publish(event interface{}) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("WS event dropped", zap.Error(err))
		return
	}
	go func() {
		h.Broadcast <- msg
	}()
}
