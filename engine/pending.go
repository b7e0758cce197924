package engine

import "fmt"

// ResolveChancellor completes a pending Chancellor effect: the resolver
// names the one card to keep and the order in which the remaining cards
// are pushed to the deck bottom. The keep/return selection must partition
// exactly the cards currently held; the submitted return order is
// preserved card-for-card.
func (m *Match) ResolveChancellor(seat uint8, keep Card, returnOrder []Card) error {
	if m.Status != StatusPendingAction || m.Pending.Kind != PendingChancellor {
		return ErrWrongStatus
	}
	if seat != m.Pending.Resolver {
		return ErrNotYourTurn
	}
	if uint8(len(returnOrder)) != m.Pending.Returns {
		return fmt.Errorf("%w: expected %d returned cards, got %d",
			ErrChancellorMismatch, m.Pending.Returns, len(returnOrder))
	}

	// {keep} ∪ returnOrder must equal the held multiset exactly.
	var want, got [10]uint8
	p := &m.Players[seat]
	for i := uint8(0); i < p.HandLen; i++ {
		want[p.Hand[i]]++
	}
	if keep > CardRelic {
		return fmt.Errorf("%w: keep card %d out of range", ErrChancellorMismatch, keep)
	}
	got[keep]++
	for _, c := range returnOrder {
		if c > CardRelic {
			return fmt.Errorf("%w: returned card %d out of range", ErrChancellorMismatch, c)
		}
		got[c]++
	}
	if want != got {
		return fmt.Errorf("%w: selection does not partition the held cards", ErrChancellorMismatch)
	}

	p.Hand = [MaxHandSize]Card{keep}
	p.HandLen = 1
	// Returning a Relic to the deck is neither a play nor a discard, so it
	// does not eliminate.
	m.insertManyAtBottom(returnOrder)

	m.Pending = PendingAction{}
	m.Status = StatusPlaying
	m.LastAction.Actor = seat
	m.finishTurn()
	return nil
}

// RevealForRoundEnd resolves the deck-exhaustion reveal: remaining hands
// are compared and the round is scored. Only the seat the turn pointer
// stopped on may submit it.
func (m *Match) RevealForRoundEnd(seat uint8) error {
	if m.Status != StatusPendingAction || m.Pending.Kind != PendingRoundEndReveal {
		return ErrWrongStatus
	}
	if seat != m.Pending.Resolver {
		return ErrNotYourTurn
	}

	m.Pending = PendingAction{}
	m.endRound(m.revealWinner())
	return nil
}

// revealWinner determines the deck-exhaustion winner among alive seats:
// highest remaining hand card, then highest discard-pile sum, then lowest
// seat index.
func (m *Match) revealWinner() uint8 {
	winner := NoSeat
	bestCard := -1
	bestSum := -1
	for p := uint8(0); p < m.NumPlayers; p++ {
		if !m.Players[p].Alive {
			continue
		}
		card := -1
		if m.Players[p].HandLen > 0 {
			card = int(m.Players[p].Hand[0])
		}
		sum := 0
		for i := uint8(0); i < m.Players[p].DiscardLen; i++ {
			sum += int(m.Players[p].Discards[i])
		}
		if card > bestCard || (card == bestCard && sum > bestSum) {
			winner = p
			bestCard = card
			bestSum = sum
		}
	}
	return winner
}
