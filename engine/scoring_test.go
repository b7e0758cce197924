package engine

import (
	"errors"
	"testing"
)

// parkOnReveal blocks a match on the round-end reveal with seat 0 as the
// resolver; hands and discards are set directly by the caller beforehand.
func parkOnReveal(m *Match) {
	m.DeckLen = 0
	m.Pending = PendingAction{Kind: PendingRoundEndReveal, Resolver: 0}
	m.Status = StatusPendingAction
}

func TestRevealWinnerHighestHand(t *testing.T) {
	m := newTestMatch([]Card{CardSeer, CardTrade, CardWard}, nil)
	parkOnReveal(m)

	if err := m.RevealForRoundEnd(0); err != nil {
		t.Fatalf("RevealForRoundEnd: %v", err)
	}
	if m.LastAction.RoundWinner != 1 {
		t.Errorf("RoundWinner = %d, want 1 (Trade beats Ward and Seer)", m.LastAction.RoundWinner)
	}
	if m.Players[1].Tokens != 1 {
		t.Errorf("winner Tokens = %d, want 1", m.Players[1].Tokens)
	}
}

func TestRevealWinnerDiscardSumTiebreak(t *testing.T) {
	m := newTestMatch([]Card{CardTrade, CardTrade}, nil)
	m.Players[0].Discards[0] = CardKnight
	m.Players[0].DiscardLen = 1
	m.Players[1].Discards[0] = CardChancellor
	m.Players[1].DiscardLen = 1
	parkOnReveal(m)

	if err := m.RevealForRoundEnd(0); err != nil {
		t.Fatalf("RevealForRoundEnd: %v", err)
	}
	if m.LastAction.RoundWinner != 1 {
		t.Errorf("RoundWinner = %d, want 1 (discard sum 6 beats 1)", m.LastAction.RoundWinner)
	}
}

func TestRevealWinnerSeatTiebreak(t *testing.T) {
	// Hands and discard sums both tied: the lowest seat wins.
	m := newTestMatch([]Card{CardWard, CardWard, CardSeer}, nil)
	parkOnReveal(m)

	if err := m.RevealForRoundEnd(0); err != nil {
		t.Fatalf("RevealForRoundEnd: %v", err)
	}
	if m.LastAction.RoundWinner != 0 {
		t.Errorf("RoundWinner = %d, want 0 (lowest tied seat)", m.LastAction.RoundWinner)
	}
}

// TestScoutBonusSoleHolder verifies the bonus goes to the only seat whose
// discards or live hand touched a Scout.
func TestScoutBonusSoleHolder(t *testing.T) {
	m := newTestMatch([]Card{CardSeer, CardTrade}, nil)
	m.Players[0].Discards[0] = CardScout
	m.Players[0].DiscardLen = 1
	parkOnReveal(m)

	if err := m.RevealForRoundEnd(0); err != nil {
		t.Fatalf("RevealForRoundEnd: %v", err)
	}
	if m.LastAction.ScoutBonus != 0 {
		t.Errorf("ScoutBonus = %d, want seat 0", m.LastAction.ScoutBonus)
	}
	// Seat 1 won the round (Trade); seat 0 still banked the bonus token.
	if m.Players[0].Tokens != 1 || m.Players[1].Tokens != 1 {
		t.Errorf("tokens = %d/%d, want 1/1", m.Players[0].Tokens, m.Players[1].Tokens)
	}
}

// TestScoutBonusInHand verifies a Scout held by a live player at round end
// qualifies, and stacks with the round-win token.
func TestScoutBonusInHand(t *testing.T) {
	m := newTestMatch([]Card{CardScout, CardSeer}, nil)
	m.Players[0].Discards[0] = CardTrade
	m.Players[0].DiscardLen = 1
	parkOnReveal(m)

	if err := m.RevealForRoundEnd(0); err != nil {
		t.Fatalf("RevealForRoundEnd: %v", err)
	}
	// Seat 1 wins the reveal (Seer 2 beats Scout 0); seat 0 takes the bonus.
	if m.LastAction.RoundWinner != 1 {
		t.Errorf("RoundWinner = %d, want 1", m.LastAction.RoundWinner)
	}
	if m.LastAction.ScoutBonus != 0 {
		t.Errorf("ScoutBonus = %d, want seat 0", m.LastAction.ScoutBonus)
	}
}

// TestScoutBonusMultipleHolders verifies two qualifiers cancel the bonus.
func TestScoutBonusMultipleHolders(t *testing.T) {
	m := newTestMatch([]Card{CardSeer, CardTrade}, nil)
	m.Players[0].Discards[0] = CardScout
	m.Players[0].DiscardLen = 1
	m.Players[1].Discards[0] = CardScout
	m.Players[1].DiscardLen = 1
	parkOnReveal(m)

	if err := m.RevealForRoundEnd(0); err != nil {
		t.Fatalf("RevealForRoundEnd: %v", err)
	}
	if m.LastAction.ScoutBonus != NoSeat {
		t.Errorf("ScoutBonus = %d, want NoSeat", m.LastAction.ScoutBonus)
	}
}

// TestScoutBonusNobody verifies the no-qualifier case awards nothing.
func TestScoutBonusNobody(t *testing.T) {
	m := newTestMatch([]Card{CardSeer, CardTrade}, nil)
	parkOnReveal(m)
	if err := m.RevealForRoundEnd(0); err != nil {
		t.Fatalf("RevealForRoundEnd: %v", err)
	}
	if m.LastAction.ScoutBonus != NoSeat {
		t.Errorf("ScoutBonus = %d, want NoSeat", m.LastAction.ScoutBonus)
	}
}

// TestGameFinish verifies reaching the token threshold finishes the match
// and that replaying the finishing move is rejected.
func TestGameFinish(t *testing.T) {
	m := newTestMatch([]Card{CardSeer, CardTrade}, nil)
	m.Players[1].Tokens = 2 // one round short of the default 3
	m.AddToPot(500)
	parkOnReveal(m)

	if err := m.RevealForRoundEnd(0); err != nil {
		t.Fatalf("RevealForRoundEnd: %v", err)
	}
	if m.Status != StatusFinished {
		t.Fatalf("Status = %d, want StatusFinished", m.Status)
	}
	if m.Winner != 1 {
		t.Errorf("Winner = %d, want 1", m.Winner)
	}
	if !m.LastAction.GameOver {
		t.Error("GameOver not flagged")
	}
	if m.Pot != 500 {
		t.Errorf("Pot = %d, want 500 (payout is the caller's, exactly once)", m.Pot)
	}

	// Replaying the finishing move after Finished is a stale-state reject.
	if err := m.RevealForRoundEnd(0); !errors.Is(err, ErrWrongStatus) {
		t.Errorf("replayed reveal: err = %v, want ErrWrongStatus", err)
	}
	if err := m.StartRound(); !errors.Is(err, ErrWrongStatus) {
		t.Errorf("StartRound after Finished: err = %v, want ErrWrongStatus", err)
	}
}

// TestRoundEndCarriesTokensAndPot verifies the next round keeps tokens,
// pot and the round counter while resetting per-round state.
func TestRoundEndCarriesTokensAndPot(t *testing.T) {
	m := NewMatch(21, DefaultRules())
	m.Join()
	m.Join()
	m.AddToPot(100)
	if err := m.StartRound(); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	firstRound := m.RoundNumber

	// Force a round end: eliminate seat 1 and score.
	m.eliminate(1)
	m.endRound(0)
	if m.Status != StatusRoundEnd {
		t.Fatalf("Status = %d, want StatusRoundEnd", m.Status)
	}

	if err := m.StartRound(); err != nil {
		t.Fatalf("second StartRound: %v", err)
	}
	if m.RoundNumber != firstRound+1 {
		t.Errorf("RoundNumber = %d, want %d", m.RoundNumber, firstRound+1)
	}
	if m.Players[0].Tokens != 1 {
		t.Errorf("tokens reset across rounds: %d, want 1", m.Players[0].Tokens)
	}
	if m.Pot != 100 {
		t.Errorf("Pot = %d, want 100", m.Pot)
	}
	// Round winner opens the next round.
	if m.CurrentPlayer != 0 {
		t.Errorf("CurrentPlayer = %d, want previous winner 0", m.CurrentPlayer)
	}
	for p := uint8(0); p < 2; p++ {
		if !m.Players[p].Alive || m.Players[p].DiscardLen != 0 || m.Players[p].HandLen != 1 {
			t.Errorf("player %d per-round state not reset", p)
		}
	}
}
