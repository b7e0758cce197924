package game

import "github.com/google/uuid"

// GameEventType tags a websocket game event.
type GameEventType string

const (
	EventPlayerJoin        GameEventType = "player_join"          // Public: a player took a seat.
	EventRoundStart        GameEventType = "game_round_start"     // Public: new round dealt.
	EventPublicCards       GameEventType = "game_public_cards"    // Public: 2-player face-up reveal.
	EventPlayerTurn        GameEventType = "game_player_turn"     // Public: whose move it is.
	EventPlayerDiscard     GameEventType = "player_discard"       // Public: card played, target, guess.
	EventPlayerEliminated  GameEventType = "player_eliminated"    // Public: a seat left the round.
	EventEffectFizzled     GameEventType = "effect_fizzled"       // Public: no legal target existed.
	EventPendingChancellor GameEventType = "pending_chancellor"   // Public: match blocked on keep/return.
	EventPendingReveal     GameEventType = "pending_round_reveal" // Public: deck exhausted, reveal due.
	EventRoundEnd          GameEventType = "game_round_end"       // Public: round winner, tokens, bonus.
	EventGameEnd           GameEventType = "game_end"             // Public: match winner and pot.

	EventPrivateHand       GameEventType = "private_hand"        // Private: your current hand.
	EventPrivatePeek       GameEventType = "private_peek_result" // Private: Seer reveal, actor only.
	EventPrivateChancellor GameEventType = "private_chancellor"  // Private: drawn cards, actor only.
	EventPrivateRejected   GameEventType = "private_move_rejected"
	EventPrivateSyncState  GameEventType = "private_sync_state"
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// GameEvent is the standard broadcast envelope for game state changes.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Card    *int                   `json:"card,omitempty"`
	Target  *EventUser             `json:"target,omitempty"`
	Guess   *int                   `json:"guess,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *MatchView             `json:"state,omitempty"`
}

func intPtr(v int) *int { return &v }
