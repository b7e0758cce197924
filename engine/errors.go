package engine

import "errors"

// All engine errors are rejections of the attempted move. A rejected move
// never mutates Match state; the caller must submit a corrected move.
var (
	// ErrNotYourTurn: the submitting seat is not the current player, or not
	// the required resolver of the active pending action.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrWrongStatus: the move kind does not match the match status or the
	// active pending action kind.
	ErrWrongStatus = errors.New("wrong match status for this move")

	// ErrCardNotInHand: the played card is not among the two cards held
	// after the turn draw.
	ErrCardNotInHand = errors.New("card not in hand")

	// ErrInvalidGuess: a Knight guess outside [0,9] or naming the Knight itself.
	ErrInvalidGuess = errors.New("invalid guess")

	// ErrInvalidTarget: target is eliminated, immune, out of range, or a
	// disallowed self-target.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrMustDiscardCursedIdol: the actor holds the Cursed Idol together
	// with Purge or Trade and attempted to play the other card.
	ErrMustDiscardCursedIdol = errors.New("must discard the cursed idol")

	// ErrChancellorMismatch: the keep/return selection does not partition
	// exactly the cards held during Chancellor resolution.
	ErrChancellorMismatch = errors.New("chancellor selection does not match held cards")

	// ErrInsufficientPlayers: fewer than 2 seated players at round start.
	ErrInsufficientPlayers = errors.New("not enough players")

	// ErrRoomFull: join attempted past the configured player limit.
	ErrRoomFull = errors.New("room is full")

	// ErrEmptyDeck: a draw was attempted where exhaustion is not itself a
	// round-end trigger. This indicates an internal invariant violation,
	// not a player-facing rejection.
	ErrEmptyDeck = errors.New("draw pile is empty")
)
