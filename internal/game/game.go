// Package game wraps the pure rules engine with room identity, player
// mapping, event fan-out and the persistence/historian hooks. All game
// outcomes are computed by the engine; this layer only translates between
// user IDs and seat indices and renders results as events.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/relicoflies/relic/engine"
	"github.com/relicoflies/relic/internal/cache"
	"github.com/relicoflies/relic/internal/database"
	"github.com/relicoflies/relic/internal/models"
)

// OnGameEndFunc runs when a match finishes: room, winner, and the final
// token counts per player.
type OnGameEndFunc func(roomID uuid.UUID, winner uuid.UUID, tokens map[uuid.UUID]int)

// RelicGame is one staked room: a rules-engine Match plus the service
// state around it.
type RelicGame struct {
	ID    uuid.UUID
	Name  string
	Stake uint64 // entry fee per player, credited to the pot on join

	Engine       engine.Match
	Players      []*models.Player
	PlayerToSeat map[uuid.UUID]uint8
	SeatToPlayer [engine.MaxPlayers]uuid.UUID

	Mu sync.Mutex

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	actionIndex int
	potPaid     bool
}

// NewRelicGame creates a room with the given rules and per-seat stake.
func NewRelicGame(name string, maxPlayers uint8, stake uint64) *RelicGame {
	id, _ := uuid.NewRandom()
	rules := engine.DefaultRules()
	if maxPlayers >= 2 {
		rules.MaxPlayers = maxPlayers
	}
	return &RelicGame{
		ID:           id,
		Name:         name,
		Stake:        stake,
		Engine:       engine.NewMatch(uint64(time.Now().UnixNano()), rules),
		PlayerToSeat: make(map[uuid.UUID]uint8),
	}
}

// AddPlayer seats a player and credits their payment to the pot.
func (g *RelicGame) AddPlayer(p *models.Player, payment uint64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if existing := g.getPlayerByID(p.ID); existing != nil {
		// Reconnect: refresh the connection, no second seat or payment.
		existing.Conn = p.Conn
		existing.Connected = true
		g.sendSyncState(p.ID)
		return nil
	}

	seat, err := g.Engine.Join()
	if err != nil {
		return err
	}
	g.Engine.AddToPot(payment)
	p.Seat = seat
	g.Players = append(g.Players, p)
	g.PlayerToSeat[p.ID] = seat
	g.SeatToPlayer[seat] = p.ID

	g.logAction(p.ID, string(EventPlayerJoin), map[string]interface{}{"seat": seat, "payment": payment})
	g.fireEvent(GameEvent{
		Type: EventPlayerJoin,
		User: &EventUser{ID: p.ID},
		Payload: map[string]interface{}{
			"seat": seat,
			"pot":  g.Engine.Pot,
		},
	})
	return nil
}

// StartRound deals a new round and notifies everyone.
func (g *RelicGame) StartRound() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.Engine.StartRound(); err != nil {
		return err
	}

	g.logAction(uuid.Nil, string(EventRoundStart), map[string]interface{}{"round": g.Engine.RoundNumber})
	g.fireEvent(GameEvent{
		Type:    EventRoundStart,
		Payload: map[string]interface{}{"round": g.Engine.RoundNumber},
	})

	if g.Engine.FaceUpLen > 0 {
		faceUp := make([]int, 0, g.Engine.FaceUpLen)
		for i := uint8(0); i < g.Engine.FaceUpLen; i++ {
			faceUp = append(faceUp, int(g.Engine.FaceUp[i]))
		}
		g.fireEvent(GameEvent{
			Type:    EventPublicCards,
			Payload: map[string]interface{}{"cards": faceUp},
		})
	}

	for _, p := range g.Players {
		g.fireEventToPlayer(p.ID, GameEvent{
			Type: EventPrivateHand,
			Card: intPtr(int(g.Engine.Players[p.Seat].Hand[0])),
		})
	}

	g.persistInitialState()
	g.broadcastSyncStateToAll()
	g.broadcastPlayerTurn()
	return nil
}

// HandlePlayerAction routes one decoded client move into the engine.
func (g *RelicGame) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	seat, ok := g.PlayerToSeat[playerID]
	if !ok {
		logrus.WithFields(logrus.Fields{"room": g.ID, "player": playerID}).
			Warn("action from player not seated in room")
		return
	}

	var err error
	switch action.ActionType {
	case "play_turn":
		err = g.applyPlayTurn(seat, action.Payload)
	case "resolve_chancellor":
		err = g.applyResolveChancellor(seat, action.Payload)
	case "reveal_round_end":
		err = g.Engine.RevealForRoundEnd(seat)
	default:
		logrus.WithFields(logrus.Fields{"room": g.ID, "action": action.ActionType}).
			Warn("unknown action type")
		g.fireEventToPlayer(playerID, GameEvent{
			Type:    EventPrivateRejected,
			Payload: map[string]interface{}{"message": "unknown action type"},
		})
		return
	}

	g.logAction(playerID, action.ActionType, map[string]interface{}{
		"payload":  action.Payload,
		"accepted": err == nil,
	})

	if err != nil {
		// A rejected move is a no-op on engine state; only the submitter hears about it.
		g.fireEventToPlayer(playerID, GameEvent{
			Type:    EventPrivateRejected,
			Payload: map[string]interface{}{"message": err.Error()},
		})
		return
	}

	// Pending resolutions reuse the original play's LastAction record, so
	// only a fresh play renders move events.
	if action.ActionType == "play_turn" {
		g.emitMoveEvents(playerID)
	}
	g.broadcastSyncStateToAll()

	la := g.Engine.LastAction
	switch {
	case la.GameOver:
		g.finishGame()
	case la.RoundOver:
		g.announceRoundEnd()
	default:
		g.announcePendingOrTurn()
	}
}

// applyPlayTurn decodes a play_turn payload and calls the engine.
func (g *RelicGame) applyPlayTurn(seat uint8, payload map[string]interface{}) error {
	card := engine.Card(payloadInt(payload, "card", int(engine.NoCard)))

	target := engine.NoSeat
	if raw, ok := payload["target"].(string); ok {
		if targetID, err := uuid.Parse(raw); err == nil {
			if ts, ok := g.PlayerToSeat[targetID]; ok {
				target = ts
			}
		}
	}

	guess := engine.NoCard
	if v := payloadInt(payload, "guess", -1); v >= 0 {
		guess = engine.Card(v)
	}

	return g.Engine.PlayTurn(seat, card, target, guess)
}

// applyResolveChancellor decodes a resolve_chancellor payload.
func (g *RelicGame) applyResolveChancellor(seat uint8, payload map[string]interface{}) error {
	keep := engine.Card(payloadInt(payload, "keep", int(engine.NoCard)))

	var returnOrder []engine.Card
	if raw, ok := payload["return"].([]interface{}); ok {
		for _, v := range raw {
			if f, ok := v.(float64); ok {
				returnOrder = append(returnOrder, engine.Card(int(f)))
			}
		}
	}
	return g.Engine.ResolveChancellor(seat, keep, returnOrder)
}

// emitMoveEvents renders the engine's LastAction record as public and
// private events. Assumes lock is held by caller.
func (g *RelicGame) emitMoveEvents(actorID uuid.UUID) {
	la := g.Engine.LastAction

	if la.Card != engine.NoCard && la.Actor != engine.NoSeat {
		ev := GameEvent{
			Type: EventPlayerDiscard,
			User: &EventUser{ID: g.SeatToPlayer[la.Actor]},
			Card: intPtr(int(la.Card)),
		}
		if la.Target != engine.NoSeat {
			ev.Target = &EventUser{ID: g.SeatToPlayer[la.Target]}
		}
		if la.Guess != engine.NoCard {
			ev.Guess = intPtr(int(la.Guess))
		}
		g.fireEvent(ev)
	}

	if la.Fizzled {
		g.fireEvent(GameEvent{Type: EventEffectFizzled, User: &EventUser{ID: actorID}})
	}

	// The Seer's read goes only to the acting player's side-channel.
	if la.Revealed != engine.NoCard {
		g.fireEventToPlayer(actorID, GameEvent{
			Type:   EventPrivatePeek,
			Card:   intPtr(int(la.Revealed)),
			Target: &EventUser{ID: g.SeatToPlayer[la.Target]},
		})
	}

	if la.Eliminated != engine.NoSeat {
		g.fireEvent(GameEvent{
			Type: EventPlayerEliminated,
			User: &EventUser{ID: g.SeatToPlayer[la.Eliminated]},
		})
	}

	// The Chancellor's drawn cards are private to the resolver.
	if g.Engine.Pending.Kind == engine.PendingChancellor {
		resolver := g.Engine.Pending.Resolver
		hand := make([]int, 0, engine.MaxHandSize)
		for i := uint8(0); i < g.Engine.Players[resolver].HandLen; i++ {
			hand = append(hand, int(g.Engine.Players[resolver].Hand[i]))
		}
		g.fireEventToPlayer(g.SeatToPlayer[resolver], GameEvent{
			Type:    EventPrivateChancellor,
			Payload: map[string]interface{}{"hand": hand, "return": int(g.Engine.Pending.Returns)},
		})
	}
}

// announcePendingOrTurn broadcasts whose move the match is waiting on.
// Assumes lock is held by caller.
func (g *RelicGame) announcePendingOrTurn() {
	switch g.Engine.Pending.Kind {
	case engine.PendingChancellor:
		g.fireEvent(GameEvent{
			Type: EventPendingChancellor,
			User: &EventUser{ID: g.SeatToPlayer[g.Engine.Pending.Resolver]},
		})
	case engine.PendingRoundEndReveal:
		g.fireEvent(GameEvent{
			Type: EventPendingReveal,
			User: &EventUser{ID: g.SeatToPlayer[g.Engine.Pending.Resolver]},
		})
	default:
		g.broadcastPlayerTurn()
	}
}

// broadcastPlayerTurn announces the current player.
// Assumes lock is held by caller.
func (g *RelicGame) broadcastPlayerTurn() {
	if g.Engine.Status != engine.StatusPlaying {
		return
	}
	g.fireEvent(GameEvent{
		Type: EventPlayerTurn,
		User: &EventUser{ID: g.SeatToPlayer[g.Engine.CurrentPlayer]},
	})
}

// announceRoundEnd broadcasts the round result and leaves the match
// parked in RoundEnd for the next StartRound. Assumes lock is held.
func (g *RelicGame) announceRoundEnd() {
	la := g.Engine.LastAction
	payload := map[string]interface{}{
		"round":  g.Engine.RoundNumber,
		"tokens": g.tokenCounts(),
	}
	if la.RoundWinner != engine.NoSeat {
		payload["winner"] = g.SeatToPlayer[la.RoundWinner].String()
	}
	if la.ScoutBonus != engine.NoSeat {
		payload["scoutBonus"] = g.SeatToPlayer[la.ScoutBonus].String()
	}
	g.logAction(uuid.Nil, string(EventRoundEnd), payload)
	g.fireEvent(GameEvent{Type: EventRoundEnd, Payload: payload})
}

// finishGame runs the once-only match finish: pot payout notification,
// persistence, leaderboard update, lobby callback. Assumes lock is held.
func (g *RelicGame) finishGame() {
	g.announceRoundEnd()

	if g.potPaid {
		return
	}
	g.potPaid = true

	winnerID := g.SeatToPlayer[uint8(g.Engine.Winner)]
	losers := make([]uuid.UUID, 0, len(g.Players))
	for _, p := range g.Players {
		if p.ID != winnerID {
			losers = append(losers, p.ID)
		}
	}

	logrus.WithFields(logrus.Fields{
		"room":   g.ID,
		"winner": winnerID,
		"pot":    g.Engine.Pot,
	}).Info("match finished, paying out pot")

	g.logAction(uuid.Nil, string(EventGameEnd), map[string]interface{}{
		"winner": winnerID.String(),
		"pot":    g.Engine.Pot,
	})
	g.fireEvent(GameEvent{
		Type: EventGameEnd,
		User: &EventUser{ID: winnerID},
		Payload: map[string]interface{}{
			"pot":    g.Engine.Pot,
			"tokens": g.tokenCounts(),
		},
	})

	g.persistFinalState(winnerID)
	go func(winner uuid.UUID, losers []uuid.UUID) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.RecordResult(ctx, winner, losers); err != nil {
			logrus.WithError(err).WithField("room", g.ID).Error("record leaderboard result")
		}
	}(winnerID, losers)

	if g.OnGameEnd != nil {
		tokens := make(map[uuid.UUID]int)
		for id, seat := range g.PlayerToSeat {
			tokens[id] = int(g.Engine.Players[seat].Tokens)
		}
		g.OnGameEnd(g.ID, winnerID, tokens)
	}
}

// tokenCounts maps player IDs to their current relic counts.
func (g *RelicGame) tokenCounts() map[string]int {
	out := make(map[string]int)
	for id, seat := range g.PlayerToSeat {
		out[id.String()] = int(g.Engine.Players[seat].Tokens)
	}
	return out
}

// persistInitialState stores the round-start audit snapshot.
// Assumes lock is held by caller.
func (g *RelicGame) persistInitialState() {
	snap := map[string]interface{}{
		"round":   g.Engine.RoundNumber,
		"deckLen": g.Engine.DeckLen,
		"pot":     g.Engine.Pot,
		"players": g.tokenCounts(),
	}
	if database.DB != nil {
		go database.UpsertInitialMatchState(g.ID, g.Name, snap)
	}
}

// persistFinalState stores the finished match outcome.
// Assumes lock is held by caller.
func (g *RelicGame) persistFinalState(winnerID uuid.UUID) {
	snap := map[string]interface{}{
		"rounds": g.Engine.RoundNumber,
		"tokens": g.tokenCounts(),
	}
	if database.DB != nil {
		pot := g.Engine.Pot
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			database.StoreFinalMatchState(ctx, g.ID, winnerID, pot, snap)
		}()
	}
}

// sendSyncState sends one player their current private view.
// Assumes lock is held by caller.
func (g *RelicGame) sendSyncState(playerID uuid.UUID) {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	view := g.ViewFor(playerID)
	g.BroadcastToPlayerFn(playerID, GameEvent{Type: EventPrivateSyncState, State: &view})
}

// fireEvent broadcasts to everyone in the room.
// Assumes lock is held by caller.
func (g *RelicGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends a private event to one player.
// Assumes lock is held by caller.
func (g *RelicGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// getPlayerByID finds a seated player, or nil.
// Assumes lock is held by caller.
func (g *RelicGame) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// logAction publishes one move record to the historian queue.
// Assumes lock is held by caller.
func (g *RelicGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	rec := cache.MatchActionRecord{
		MatchID:       g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.MatchActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishMatchAction(ctx, rec); err != nil {
			logrus.WithError(err).WithField("room", rec.MatchID).Error("publish action record")
		}
	}(rec)
}

// payloadInt reads an integer field from a JSON-decoded payload.
func payloadInt(payload map[string]interface{}, key string, fallback int) int {
	if f, ok := payload[key].(float64); ok {
		return int(f)
	}
	return fallback
}
