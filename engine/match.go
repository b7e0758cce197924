// Package engine implements the Relic of Lies rules engine.
//
// The engine is a pure, synchronous state-transition machine over a flat
// Match value: no I/O, no goroutines, no clocks. An external single-writer
// sequencer delivers one move at a time; the engine's job is to validate
// each move against the current state, apply it, and surface round and
// match outcomes through the LastAction record. A rejected move is a no-op.
package engine

const (
	MaxPlayers  = 6
	DeckSize    = 21
	MaxHandSize = 3 // 1 held + 2 drawn mid-Chancellor
	MaxFaceUp   = 3
)

// NoSeat marks the absence of a seat index in observation records.
const NoSeat uint8 = 0xFF

// Status is the lifecycle state of a Match.
type Status uint8

const (
	StatusWaiting       Status = iota // created; players joining
	StatusPlaying                     // round in progress, current player to act
	StatusPendingAction               // blocked on a multi-step resolution
	StatusRoundEnd                    // round scored; awaiting StartRound
	StatusFinished                    // match winner decided; no further moves
)

// PendingKind tags the multi-step effect a Match is blocked on.
type PendingKind uint8

const (
	PendingNone           PendingKind = iota
	PendingChancellor                 // actor must pick keep/return cards
	PendingRoundEndReveal             // deck exhausted; resolver reveals for scoring
)

// PendingAction names the blocked sub-state and the seat that must resolve it.
type PendingAction struct {
	Kind     PendingKind
	Resolver uint8
	Returns  uint8 // Chancellor: number of cards to push back to the deck bottom
}

// PlayerState holds one seat's per-round and per-match state.
type PlayerState struct {
	Hand       [MaxHandSize]Card
	HandLen    uint8
	Discards   [DeckSize]Card
	DiscardLen uint8
	Alive      bool
	Immune     bool // cleared at the start of this player's next turn
	Tokens     uint8
}

// LastActionInfo summarizes the most recent accepted move. Revealed is a
// side-channel for the acting player only; everything else is public.
type LastActionInfo struct {
	Actor       uint8
	Card        Card
	Target      uint8 // NoSeat if untargeted
	Guess       Card  // NoCard unless Knight
	Revealed    Card  // NoCard unless Seer; private to the actor
	Eliminated  uint8 // NoSeat if nobody was eliminated
	Fizzled     bool  // targeted effect with no legal target
	RoundOver   bool
	RoundWinner uint8 // NoSeat unless RoundOver
	ScoutBonus  uint8 // NoSeat unless a sole Scout holder earned the bonus
	GameOver    bool
}

// Match is the complete, self-contained state of one staked game among
// 2–6 players. It is a flat value type; Save/Restore are plain copies.
type Match struct {
	Players    [MaxPlayers]PlayerState
	NumPlayers uint8

	Deck      [DeckSize]Card // Deck[DeckLen-1] is the top (next draw)
	DeckLen   uint8
	Burned    Card // face-down reserve; NoCard once consumed
	FaceUp    [MaxFaceUp]Card
	FaceUpLen uint8

	CurrentPlayer uint8
	Status        Status
	Pending       PendingAction
	RoundNumber   uint16
	Pot           uint64
	Winner        int8 // match winner seat once Finished, else -1
	lastWinner    int8 // previous round's winner opens the next round

	LastAction LastActionInfo
	RNG        uint64
	Rules      Rules
}

// NewMatch initializes a Waiting match with the given seed and rules.
func NewMatch(seed uint64, rules Rules) Match {
	var m Match
	m.RNG = seed
	if m.RNG == 0 {
		m.RNG = 1 // xorshift can't start at 0
	}
	m.Rules = rules
	m.Status = StatusWaiting
	m.Burned = NoCard
	m.Winner = -1
	m.lastWinner = -1
	return m
}

// ---------------------------------------------------------------------------
// xorshift64 RNG — inline, no interface
// ---------------------------------------------------------------------------

func (m *Match) nextRand() uint64 {
	x := m.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	m.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (m *Match) randN(n uint64) uint64 {
	return m.nextRand() % n
}

// ---------------------------------------------------------------------------
// Joining and the pot
// ---------------------------------------------------------------------------

// Join seats a new player and returns their seat index. Only legal while
// the match is Waiting.
func (m *Match) Join() (uint8, error) {
	if m.Status != StatusWaiting {
		return 0, ErrWrongStatus
	}
	if m.NumPlayers >= m.Rules.maxPlayers() {
		return 0, ErrRoomFull
	}
	seat := m.NumPlayers
	m.NumPlayers++
	return seat, nil
}

// AddToPot credits an entry payment. The pot is opaque to the engine
// beyond addition here and payout on Finished.
func (m *Match) AddToPot(amount uint64) {
	m.Pot += amount
}

// ---------------------------------------------------------------------------
// Round start
// ---------------------------------------------------------------------------

// StartRound deals a fresh round: full deck rebuilt and shuffled, one card
// burned, public cards revealed in a 2-player match, one card dealt to each
// seat. Legal from Waiting (first round) or RoundEnd (subsequent rounds).
func (m *Match) StartRound() error {
	if m.Status != StatusWaiting && m.Status != StatusRoundEnd {
		return ErrWrongStatus
	}
	if m.NumPlayers < 2 {
		return ErrInsufficientPlayers
	}

	// Per-round player state resets; tokens persist across rounds.
	for p := uint8(0); p < m.NumPlayers; p++ {
		m.Players[p].Hand = [MaxHandSize]Card{}
		m.Players[p].HandLen = 0
		m.Players[p].Discards = [DeckSize]Card{}
		m.Players[p].DiscardLen = 0
		m.Players[p].Alive = true
		m.Players[p].Immune = false
	}

	m.buildDeck()
	m.shuffleDeck()

	// Burn one card face-down; it doubles as the Purge reserve draw.
	m.Burned = m.mustDraw()

	// In a 2-player match a fixed number of cards are revealed face-up.
	m.FaceUpLen = 0
	if m.NumPlayers == 2 {
		for i := uint8(0); i < m.Rules.TwoPlayerPublicCards && i < MaxFaceUp; i++ {
			m.FaceUp[i] = m.mustDraw()
			m.FaceUpLen++
		}
	}

	for p := uint8(0); p < m.NumPlayers; p++ {
		m.giveCard(p, m.mustDraw())
	}

	// The previous round's winner opens; the first round opens at random.
	if m.lastWinner >= 0 {
		m.CurrentPlayer = uint8(m.lastWinner)
	} else {
		m.CurrentPlayer = uint8(m.randN(uint64(m.NumPlayers)))
	}

	m.RoundNumber++
	m.Pending = PendingAction{}
	m.LastAction = LastActionInfo{Actor: NoSeat, Target: NoSeat, Guess: NoCard,
		Revealed: NoCard, Eliminated: NoSeat, RoundWinner: NoSeat, ScoutBonus: NoSeat}
	m.Status = StatusPlaying
	return nil
}

// giveCard appends a card to a seat's hand.
func (m *Match) giveCard(seat uint8, c Card) {
	p := &m.Players[seat]
	p.Hand[p.HandLen] = c
	p.HandLen++
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// ActingPlayer returns the seat that must act next: the pending resolver
// when a pending action is active, the current player otherwise.
func (m *Match) ActingPlayer() uint8 {
	if m.Pending.Kind != PendingNone {
		return m.Pending.Resolver
	}
	return m.CurrentPlayer
}

// AliveCount returns the number of seats still in the round.
func (m *Match) AliveCount() uint8 {
	n := uint8(0)
	for p := uint8(0); p < m.NumPlayers; p++ {
		if m.Players[p].Alive {
			n++
		}
	}
	return n
}

// soleSurvivor returns the only alive seat, or NoSeat if several remain.
func (m *Match) soleSurvivor() uint8 {
	winner := NoSeat
	for p := uint8(0); p < m.NumPlayers; p++ {
		if !m.Players[p].Alive {
			continue
		}
		if winner != NoSeat {
			return NoSeat
		}
		winner = p
	}
	return winner
}

// nextAliveSeat scans forward from the given seat, modulo the seated
// player count, to the next alive seat. Explicit index scan — no circular
// links.
func (m *Match) nextAliveSeat(from uint8) uint8 {
	seat := from
	for i := uint8(0); i < m.NumPlayers; i++ {
		seat = (seat + 1) % m.NumPlayers
		if m.Players[seat].Alive {
			return seat
		}
	}
	return from
}

// ---------------------------------------------------------------------------
// Turn advancement and elimination
// ---------------------------------------------------------------------------

// advanceTurn moves the turn pointer to the next alive seat. If that seat
// has no card left to draw, the match blocks on the round-end reveal
// instead of playing on.
func (m *Match) advanceTurn() {
	m.CurrentPlayer = m.nextAliveSeat(m.CurrentPlayer)
	if m.DeckLen == 0 {
		m.Pending = PendingAction{Kind: PendingRoundEndReveal, Resolver: m.CurrentPlayer}
		m.Status = StatusPendingAction
		return
	}
	m.Status = StatusPlaying
}

// eliminate removes a seat from the round. Remaining hand cards are
// revealed into the player's discard pile, which keeps the 21-card
// multiset intact and feeds the round-end Scout scan.
func (m *Match) eliminate(seat uint8) {
	p := &m.Players[seat]
	if !p.Alive {
		return
	}
	p.Alive = false
	for i := uint8(0); i < p.HandLen; i++ {
		p.Discards[p.DiscardLen] = p.Hand[i]
		p.DiscardLen++
	}
	p.Hand = [MaxHandSize]Card{}
	p.HandLen = 0
	m.LastAction.Eliminated = seat
}

// ---------------------------------------------------------------------------
// Snapshot (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of Match for stale-state rejection
// tests and callers that want optimistic retries.
type Snapshot Match

// Save returns a snapshot of the current match state.
func (m *Match) Save() Snapshot { return Snapshot(*m) }

// Restore replaces the match state with the given snapshot.
func (m *Match) Restore(s Snapshot) { *m = Match(s) }
