package engine

import (
	"errors"
	"testing"
)

// newTestMatch builds a Playing match with the given hand per seat and the
// deck laid out top-first (deckTopFirst[0] is the next draw). Seat 0 acts.
func newTestMatch(hands []Card, deckTopFirst []Card) *Match {
	m := NewMatch(1, DefaultRules())
	m.NumPlayers = uint8(len(hands))
	for i, c := range hands {
		m.Players[i].Alive = true
		m.Players[i].Hand[0] = c
		m.Players[i].HandLen = 1
	}
	for i, c := range deckTopFirst {
		m.Deck[len(deckTopFirst)-1-i] = c
	}
	m.DeckLen = uint8(len(deckTopFirst))
	m.Status = StatusPlaying
	m.CurrentPlayer = 0
	m.LastAction = LastActionInfo{Actor: NoSeat, Target: NoSeat, Guess: NoCard,
		Revealed: NoCard, Eliminated: NoSeat, RoundWinner: NoSeat, ScoutBonus: NoSeat}
	return &m
}

// cardMultiset tallies every card visible in hands, discards, deck, burn
// and face-up cards.
func cardMultiset(m *Match) [10]uint8 {
	var counts [10]uint8
	for p := uint8(0); p < m.NumPlayers; p++ {
		for i := uint8(0); i < m.Players[p].HandLen; i++ {
			counts[m.Players[p].Hand[i]]++
		}
		for i := uint8(0); i < m.Players[p].DiscardLen; i++ {
			counts[m.Players[p].Discards[i]]++
		}
	}
	for i := uint8(0); i < m.DeckLen; i++ {
		counts[m.Deck[i]]++
	}
	if m.Burned != NoCard {
		counts[m.Burned]++
	}
	for i := uint8(0); i < m.FaceUpLen; i++ {
		counts[m.FaceUp[i]]++
	}
	return counts
}

var fullDeckCounts = [10]uint8{2, 6, 2, 2, 2, 2, 2, 1, 1, 1}

func TestJoinAndRoomFull(t *testing.T) {
	rules := DefaultRules()
	rules.MaxPlayers = 2
	m := NewMatch(5, rules)

	for want := uint8(0); want < 2; want++ {
		seat, err := m.Join()
		if err != nil {
			t.Fatalf("Join %d: %v", want, err)
		}
		if seat != want {
			t.Errorf("Join returned seat %d, want %d", seat, want)
		}
	}
	if _, err := m.Join(); !errors.Is(err, ErrRoomFull) {
		t.Errorf("third Join: err = %v, want ErrRoomFull", err)
	}
}

func TestJoinAfterStartRejected(t *testing.T) {
	m := NewMatch(5, DefaultRules())
	m.Join()
	m.Join()
	if err := m.StartRound(); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if _, err := m.Join(); !errors.Is(err, ErrWrongStatus) {
		t.Errorf("Join while Playing: err = %v, want ErrWrongStatus", err)
	}
}

func TestStartRoundInsufficientPlayers(t *testing.T) {
	m := NewMatch(5, DefaultRules())
	m.Join()
	if err := m.StartRound(); !errors.Is(err, ErrInsufficientPlayers) {
		t.Errorf("StartRound with 1 player: err = %v, want ErrInsufficientPlayers", err)
	}
}

// TestStartRoundDeal verifies the deal shape for a 3-player round: one
// burn, no public cards, one card per player, 17 left in the deck.
func TestStartRoundDeal(t *testing.T) {
	m := NewMatch(11, DefaultRules())
	for i := 0; i < 3; i++ {
		m.Join()
	}
	if err := m.StartRound(); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	if m.Status != StatusPlaying {
		t.Errorf("Status = %d, want StatusPlaying", m.Status)
	}
	if m.Burned == NoCard {
		t.Error("no card was burned")
	}
	if m.FaceUpLen != 0 {
		t.Errorf("FaceUpLen = %d in 3-player round, want 0", m.FaceUpLen)
	}
	// 21 - 1 burn - 3 dealt = 17.
	if m.DeckLen != 17 {
		t.Errorf("DeckLen = %d, want 17", m.DeckLen)
	}
	for p := uint8(0); p < 3; p++ {
		if m.Players[p].HandLen != 1 {
			t.Errorf("player %d HandLen = %d, want 1", p, m.Players[p].HandLen)
		}
		if !m.Players[p].Alive {
			t.Errorf("player %d not alive after deal", p)
		}
	}
	if got := cardMultiset(&m); got != fullDeckCounts {
		t.Errorf("card multiset = %v, want %v", got, fullDeckCounts)
	}
}

// TestStartRoundTwoPlayerPublicCards verifies the 2-player face-up reveal.
func TestStartRoundTwoPlayerPublicCards(t *testing.T) {
	m := NewMatch(13, DefaultRules())
	m.Join()
	m.Join()
	if err := m.StartRound(); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if m.FaceUpLen != 3 {
		t.Errorf("FaceUpLen = %d, want 3", m.FaceUpLen)
	}
	// 21 - 1 burn - 3 face-up - 2 dealt = 15.
	if m.DeckLen != 15 {
		t.Errorf("DeckLen = %d, want 15", m.DeckLen)
	}
	if got := cardMultiset(&m); got != fullDeckCounts {
		t.Errorf("card multiset = %v, want %v", got, fullDeckCounts)
	}
}

func TestNextAliveSeatSkipsEliminated(t *testing.T) {
	m := newTestMatch([]Card{CardScout, CardKnight, CardSeer, CardWard}, []Card{CardKnight})
	m.Players[1].Alive = false
	m.Players[2].Alive = false

	if got := m.nextAliveSeat(0); got != 3 {
		t.Errorf("nextAliveSeat(0) = %d, want 3", got)
	}
	if got := m.nextAliveSeat(3); got != 0 {
		t.Errorf("nextAliveSeat(3) = %d, want 0", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	m := newTestMatch([]Card{CardKnight, CardSeer}, []Card{CardWard, CardScout})
	snap := m.Save()

	if err := m.PlayTurn(0, CardWard, NoSeat, NoCard); err != nil {
		t.Fatalf("PlayTurn: %v", err)
	}
	if m.CurrentPlayer != 1 {
		t.Fatalf("turn did not advance")
	}

	m.Restore(snap)
	if m.CurrentPlayer != 0 || m.Players[0].DiscardLen != 0 || m.DeckLen != 2 {
		t.Error("Restore did not reproduce the saved state")
	}
}

// TestSeedZeroCorrected verifies xorshift seed 0 is corrected to 1.
func TestSeedZeroCorrected(t *testing.T) {
	m := NewMatch(0, DefaultRules())
	if m.RNG != 1 {
		t.Errorf("RNG = %d for seed 0, want 1", m.RNG)
	}
}
