// Package ws is the websocket transport: it authenticates connections,
// decodes the client envelope, and forwards moves to the room registry.
// Game state never lives here; events flow out through the per-room
// broadcast hooks.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/relicoflies/relic/internal/auth"
	"github.com/relicoflies/relic/internal/game"
	"github.com/relicoflies/relic/internal/models"
)

// clientMsg is the inbound envelope. Game moves reuse the same shape as
// models.GameAction; lobby operations carry their arguments in payload.
type clientMsg struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

type serverMsg struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// client is one authenticated websocket connection.
type client struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	roomID uuid.UUID // current room, uuid.Nil in the lobby
}

// Hub owns the live connections and routes envelopes into the registry.
type Hub struct {
	Rooms *game.Rooms

	mu      sync.RWMutex
	clients map[uuid.UUID]*client // by user ID; one connection per user
}

// NewHub wires a hub over a room registry.
func NewHub(rooms *game.Rooms) *Hub {
	return &Hub{Rooms: rooms, clients: make(map[uuid.UUID]*client)}
}

// ServeWS upgrades the connection. The JWT rides in the "token" query
// parameter so browser clients can connect without custom headers.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.ParseToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		logrus.WithError(err).Warn("websocket accept failed")
		return
	}

	c := &client{userID: userID, conn: conn, send: make(chan []byte, 64)}

	if old := h.registerClient(c); old != nil {
		// Closing the socket makes the displaced read loop exit. Its send
		// channel is never closed, so replies routed to it mid-dispatch
		// land on a live channel; its write loop ends with the request
		// context.
		_ = old.conn.Close(websocket.StatusPolicyViolation, "connection replaced")
	}

	logrus.WithField("user", userID).Info("websocket connected")

	go h.writeLoop(r.Context(), c)
	h.readLoop(r.Context(), c)
	h.dropClient(c)
}

func (h *Hub) writeLoop(ctx context.Context, c *client) {
	ping := time.NewTicker(15 * time.Second)
	defer func() {
		ping.Stop()
		_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var msg clientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(c, "malformed message")
			continue
		}
		h.dispatch(c, msg)
	}
}

// dispatch routes one envelope: lobby operations here, game moves into
// the room registry.
func (h *Hub) dispatch(c *client, msg clientMsg) {
	switch msg.Type {
	case "create_room":
		h.handleCreateRoom(c, msg.Payload)
	case "join_room":
		h.handleJoinRoom(c, msg.Payload)
	case "start_round":
		if err := h.Rooms.StartRound(c.roomID); err != nil {
			h.sendError(c, err.Error())
		}
	case "play_turn", "resolve_chancellor", "reveal_round_end":
		err := h.Rooms.HandleAction(c.roomID, c.userID, models.GameAction{
			ActionType: msg.Type,
			Payload:    msg.Payload,
		})
		if err != nil {
			h.sendError(c, err.Error())
		}
	default:
		h.sendError(c, "unknown message type")
	}
}

func (h *Hub) handleCreateRoom(c *client, payload map[string]interface{}) {
	name, _ := payload["name"].(string)
	maxPlayers := uint8(2)
	if v, ok := payload["maxPlayers"].(float64); ok && v >= 2 && v <= 6 {
		maxPlayers = uint8(v)
	}
	var stake uint64
	if v, ok := payload["stake"].(float64); ok && v > 0 {
		stake = uint64(v)
	}

	g := h.Rooms.CreateRoom(name, maxPlayers, stake)
	h.wireRoomBroadcast(g)
	h.sendTo(c, serverMsg{Type: "room_created", Payload: map[string]interface{}{
		"roomId": g.ID.String(),
		"stake":  g.Stake,
	}})
}

func (h *Hub) handleJoinRoom(c *client, payload map[string]interface{}) {
	raw, _ := payload["roomId"].(string)
	roomID, err := uuid.Parse(raw)
	if err != nil {
		h.sendError(c, "bad room id")
		return
	}

	p := &models.Player{ID: c.userID, Connected: true, Conn: c.conn}
	if err := h.Rooms.JoinRoom(roomID, p); err != nil {
		h.sendError(c, err.Error())
		return
	}
	c.roomID = roomID
}

// wireRoomBroadcast points a game's event hooks at the hub's connections.
// Events fan out by looking up each seated player's live client at send
// time, so reconnects pick up mid-game.
func (h *Hub) wireRoomBroadcast(g *game.RelicGame) {
	roomID := g.ID
	g.BroadcastFn = func(ev game.GameEvent) {
		blob, err := json.Marshal(ev)
		if err != nil {
			return
		}
		room, ok := h.Rooms.Get(roomID)
		if !ok {
			return
		}
		h.mu.RLock()
		for _, p := range room.Players {
			if c, online := h.clients[p.ID]; online {
				h.enqueue(c, blob)
			}
		}
		h.mu.RUnlock()
	}
	g.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.GameEvent) {
		blob, err := json.Marshal(ev)
		if err != nil {
			return
		}
		h.mu.RLock()
		if c, online := h.clients[playerID]; online {
			h.enqueue(c, blob)
		}
		h.mu.RUnlock()
	}
}

// enqueue drops the message if the client's buffer is full rather than
// blocking the game under a held lock.
func (h *Hub) enqueue(c *client, blob []byte) {
	select {
	case c.send <- blob:
	default:
	}
}

func (h *Hub) sendTo(c *client, msg serverMsg) {
	blob, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.enqueue(c, blob)
}

func (h *Hub) sendError(c *client, message string) {
	h.sendTo(c, serverMsg{Type: "error", Payload: map[string]interface{}{"message": message}})
}

// registerClient installs c as its user's connection and returns the
// connection it displaced, if any.
func (h *Hub) registerClient(c *client) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.clients[c.userID]
	h.clients[c.userID] = c
	return old
}

// dropClient unregisters a connection and flags the seat disconnected so
// the same user can reattach later. A connection that was displaced by a
// newer one tears down without touching the current registration or the
// seat's connected flag.
func (h *Hub) dropClient(c *client) {
	current := false
	h.mu.Lock()
	if cur, ok := h.clients[c.userID]; ok && cur == c {
		delete(h.clients, c.userID)
		close(c.send)
		current = true
	}
	h.mu.Unlock()

	if current && c.roomID != uuid.Nil {
		h.Rooms.MarkDisconnected(c.roomID, c.userID)
	}
	logrus.WithField("user", c.userID).Info("websocket disconnected")
}
