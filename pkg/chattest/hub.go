package chattest

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KnoblauchPilze/backend-toolkit/pkg/errors"
	"github.com/KnoblauchPilze/backend-toolkit/pkg/logger"
	"github.com/Knoblauchpilze/chat-client/pkg/messages"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const writeTimeout = 1 * time.Second
const receivedBufferSize = 64

// Hub is a minimal chat server: it assigns an identity to each client
// and broadcasts connections, disconnections and public messages to all
// of them, including the originator.
type Hub struct {
	log logger.Logger

	accepting atomic.Bool
	lock      sync.RWMutex
	clients   map[string]*websocket.Conn
	wg        sync.WaitGroup

	received chan Frame
}

func NewHub(log logger.Logger) *Hub {
	h := &Hub{
		log:      log,
		clients:  make(map[string]*websocket.Conn),
		received: make(chan Frame, receivedBufferSize),
	}

	h.accepting.Store(true)

	return h
}

// Register mounts the websocket endpoint of the hub on the path.
func (h *Hub) Register(e *echo.Echo, path string) {
	e.GET(path, h.handleConnectionRequest)
}

// Received lists the public messages sent by clients. Messages are
// dropped when nobody consumes them.
func (h *Hub) Received() <-chan Frame {
	return h.received
}

func (h *Hub) Clients() []string {
	h.lock.RLock()
	defer h.lock.RUnlock()

	out := make([]string, 0, len(h.clients))
	for id := range h.clients {
		out = append(out, id)
	}
	return out
}

// Broadcast sends the raw frame to all connected clients.
func (h *Hub) Broadcast(raw string) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	for id, conn := range h.clients {
		h.write(id, conn, raw)
	}
}

func (h *Hub) SendTo(id string, raw string) error {
	h.lock.RLock()
	defer h.lock.RUnlock()

	conn, ok := h.clients[id]
	if !ok {
		return errors.NewCode(ErrUnknownClient)
	}

	h.write(id, conn, raw)
	return nil
}

// Disconnect closes the connection of a client as a server going away
// would.
func (h *Hub) Disconnect(id string) error {
	conn := h.unregister(id)
	if conn == nil {
		return errors.NewCode(ErrUnknownClient)
	}

	go conn.Close(websocket.StatusGoingAway, "disconnected")
	h.broadcastEvent(messages.PLAYER_DISCONNECTED, id, leftMessage(id))

	return nil
}

func (h *Hub) Close() {
	// Copy all clients to prevent dead locks while their read loop
	// terminates.
	all := make(map[string]*websocket.Conn)
	closing := func() bool {
		h.lock.Lock()
		defer h.lock.Unlock()

		if !h.accepting.CompareAndSwap(true, false) {
			return false
		}

		for id, conn := range h.clients {
			all[id] = conn
		}
		clear(h.clients)
		return true
	}()
	if !closing {
		return
	}

	for _, conn := range all {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}

	h.wg.Wait()
}

func (h *Hub) handleConnectionRequest(c echo.Context) error {
	if !h.admit() {
		return c.JSON(http.StatusServiceUnavailable, "Server is shutting down")
	}
	defer h.wg.Done()

	opts := websocket.AcceptOptions{
		InsecureSkipVerify: true,
	}
	conn, err := websocket.Accept(c.Response(), c.Request(), &opts)
	if err != nil {
		h.log.Errorf("Failed to upgrade connection: %v", err)
		return nil
	}

	id := uuid.NewString()
	if !h.register(id, conn) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return nil
	}
	h.log.Debugf("Client %s connected", id)

	h.sendEvent(id, conn, messages.CONNECTED_TO_SERVER, id, welcomeMessage(id))
	h.broadcastEvent(messages.PLAYER_CONNECTED, id, joinedMessage(id))

	h.readLoop(id, conn)

	return nil
}

func (h *Hub) readLoop(id string, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			h.log.Debugf("Client %s stopped reading: %v", id, err)
			break
		}

		text, ok := parseOutbound(string(data))
		if !ok {
			h.log.Debugf("Ignoring frame from %s: %s", id, string(data))
			continue
		}

		h.record(Frame{ClientId: id, Message: text})
		h.broadcastEvent(messages.PUBLIC_MESSAGE, id, text)
	}

	if h.unregister(id) != nil {
		conn.CloseNow()
		h.broadcastEvent(messages.PLAYER_DISCONNECTED, id, leftMessage(id))
	}
}

// admit tracks a new connection request unless the hub is closing. The
// caller must call wg.Done when it returns true.
func (h *Hub) admit() bool {
	h.lock.Lock()
	defer h.lock.Unlock()

	if !h.accepting.Load() {
		return false
	}
	h.wg.Add(1)
	return true
}

func (h *Hub) register(id string, conn *websocket.Conn) bool {
	h.lock.Lock()
	defer h.lock.Unlock()

	// Close might already have swept the clients.
	if !h.accepting.Load() {
		return false
	}
	h.clients[id] = conn
	return true
}

func (h *Hub) unregister(id string) *websocket.Conn {
	h.lock.Lock()
	defer h.lock.Unlock()

	conn, ok := h.clients[id]
	if !ok {
		return nil
	}
	delete(h.clients, id)

	return conn
}

func (h *Hub) record(frame Frame) {
	select {
	case h.received <- frame:
	default:
		h.log.Debugf("Dropping received frame from %s", frame.ClientId)
	}
}

func (h *Hub) sendEvent(to string, conn *websocket.Conn, tag messages.EventTag, origin string, text string) {
	raw, err := encodeEvent(tag, origin, text)
	if err != nil {
		h.log.Warnf("Failed to encode %s event: %v", tag, err)
		return
	}

	h.write(to, conn, raw)
}

func (h *Hub) broadcastEvent(tag messages.EventTag, origin string, text string) {
	raw, err := encodeEvent(tag, origin, text)
	if err != nil {
		h.log.Warnf("Failed to encode %s event: %v", tag, err)
		return
	}

	h.Broadcast(raw)
}

func (h *Hub) write(id string, conn *websocket.Conn, raw string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := conn.Write(ctx, websocket.MessageText, []byte(raw)); err != nil {
		h.log.Debugf("Failed to send frame to %s: %v", id, err)
	}
}

func encodeEvent(tag messages.EventTag, origin string, text string) (string, error) {
	event := messages.InboundEvent{
		Tag:      tag,
		OriginId: origin,
		Message:  text,
	}
	return messages.EncodeInbound(event)
}
