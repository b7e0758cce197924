package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/relicoflies/relic/internal/models"
)

// ErrRoomNotFound reports a room ID with no live game behind it.
var ErrRoomNotFound = errors.New("room not found")

// Rooms is the live-room registry. It owns room lifecycle; per-room game
// state is guarded by each game's own mutex.
type Rooms struct {
	mu    sync.Mutex
	games map[uuid.UUID]*RelicGame
}

// NewRooms creates an empty registry.
func NewRooms() *Rooms {
	return &Rooms{games: make(map[uuid.UUID]*RelicGame)}
}

// CreateRoom registers a new staked room and returns it. Finished rooms
// drop out of the registry via the game's OnGameEnd hook.
func (r *Rooms) CreateRoom(name string, maxPlayers uint8, stake uint64) *RelicGame {
	g := NewRelicGame(name, maxPlayers, stake)
	g.OnGameEnd = func(roomID uuid.UUID, winner uuid.UUID, tokens map[uuid.UUID]int) {
		r.Remove(roomID)
	}

	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()

	logrus.WithFields(logrus.Fields{"room": g.ID, "name": name, "stake": stake}).
		Info("room created")
	return g
}

// Get returns the live game for a room ID.
func (r *Rooms) Get(roomID uuid.UUID) (*RelicGame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[roomID]
	return g, ok
}

// List returns a snapshot of the live games.
func (r *Rooms) List() []*RelicGame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*RelicGame, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	return out
}

// JoinRoom seats a player in a room, charging the room's stake into the
// pot. Rejoining an existing seat reattaches the connection for free.
func (r *Rooms) JoinRoom(roomID uuid.UUID, p *models.Player) error {
	g, ok := r.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	return g.AddPlayer(p, g.Stake)
}

// StartRound begins the next round in a room.
func (r *Rooms) StartRound(roomID uuid.UUID) error {
	g, ok := r.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	return g.StartRound()
}

// HandleAction routes one decoded client move into a room's game.
func (r *Rooms) HandleAction(roomID uuid.UUID, playerID uuid.UUID, action models.GameAction) error {
	g, ok := r.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	g.HandlePlayerAction(playerID, action)
	return nil
}

// MarkDisconnected flags a player's connection as gone without freeing
// their seat; the same user can reattach with JoinRoom.
func (r *Rooms) MarkDisconnected(roomID uuid.UUID, playerID uuid.UUID) {
	g, ok := r.Get(roomID)
	if !ok {
		return
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()
	if p := g.getPlayerByID(playerID); p != nil {
		p.Connected = false
		p.Conn = nil
	}
}

// Remove drops a room from the registry.
func (r *Rooms) Remove(roomID uuid.UUID) {
	r.mu.Lock()
	delete(r.games, roomID)
	r.mu.Unlock()
	logrus.WithField("room", roomID).Info("room removed")
}
