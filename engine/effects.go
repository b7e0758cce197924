package engine

import "fmt"

// PlayTurn executes one complete turn for the given seat: the turn draw
// (hand goes from 1 to 2 cards), then the chosen card's effect, then the
// discard and either turn advancement or a round-end transition.
//
// target is the seat an effect applies to (NoSeat for untargeted cards);
// guess is the Knight's named value (NoCard otherwise). All validation
// happens before any mutation: a returned error leaves the Match untouched.
func (m *Match) PlayTurn(seat uint8, card Card, target uint8, guess Card) error {
	if m.Status != StatusPlaying {
		return ErrWrongStatus
	}
	if seat >= m.NumPlayers || seat != m.CurrentPlayer {
		return ErrNotYourTurn
	}
	if m.DeckLen == 0 {
		// advanceTurn blocks on the round-end reveal before this can
		// happen; reaching it means a corrupted state.
		return ErrEmptyDeck
	}

	held := m.Players[seat].Hand[0]
	drawn := m.peekTop() // the turn draw, observed without mutating

	if card != held && card != drawn {
		return fmt.Errorf("%w: played %s holding %s and %s", ErrCardNotInHand, card, held, drawn)
	}
	other := held
	if card == held {
		other = drawn
	}

	// Forced-discard precondition: holding the Cursed Idol alongside Purge
	// or Trade locks the turn to the Idol.
	if card != CardCursedIdol {
		pair := [2]Card{held, drawn}
		hasIdol := pair[0] == CardCursedIdol || pair[1] == CardCursedIdol
		hasForced := pair[0] == CardPurge || pair[1] == CardPurge ||
			pair[0] == CardTrade || pair[1] == CardTrade
		if hasIdol && hasForced {
			return ErrMustDiscardCursedIdol
		}
	}

	if card == CardKnight {
		if guess > CardRelic || guess == CardKnight {
			return fmt.Errorf("%w: %d", ErrInvalidGuess, guess)
		}
	}

	// Target legality. A targeted card with no legal target fizzles: it is
	// still discarded but performs no further action.
	fizzled := false
	if card.NeedsTarget() {
		if m.hasLegalTarget(seat, card) {
			if err := m.checkTarget(seat, card, target); err != nil {
				return err
			}
		} else {
			fizzled = true
		}
	}

	// --- Validation complete; mutate. ---

	// Immunity from a previous Ward expires at the start of its player's turn.
	m.Players[seat].Immune = false

	m.mustDraw() // pop the already-observed turn draw
	m.Players[seat].Hand[0] = other
	m.Players[seat].HandLen = 1

	p := &m.Players[seat]
	p.Discards[p.DiscardLen] = card
	p.DiscardLen++

	m.LastAction = LastActionInfo{
		Actor: seat, Card: card, Target: NoSeat, Guess: NoCard,
		Revealed: NoCard, Eliminated: NoSeat, RoundWinner: NoSeat, ScoutBonus: NoSeat,
		Fizzled: fizzled,
	}
	if card.NeedsTarget() && !fizzled {
		m.LastAction.Target = target
	}

	if !fizzled {
		m.resolveEffect(seat, card, target, guess)
	}

	// A Relic leaving the hand by voluntary play eliminates its player,
	// evaluated after the card's own (null) effect.
	if card == CardRelic {
		m.eliminate(seat)
	}

	if m.Pending.Kind == PendingChancellor {
		// Turn does not advance until the Chancellor resolves.
		return nil
	}

	m.finishTurn()
	return nil
}

// resolveEffect applies the played card's effect. The 0–9 value space is
// closed, so a plain switch covers every card.
func (m *Match) resolveEffect(seat uint8, card Card, target uint8, guess Card) {
	switch card {
	case CardScout:
		// No immediate effect; the discard feeds round-end scoring.

	case CardKnight:
		m.LastAction.Guess = guess
		if m.Players[target].HandLen > 0 && m.Players[target].Hand[0] == guess {
			m.eliminate(target)
		}

	case CardSeer:
		// A read, not a mutation. Revealed is surfaced only to the actor.
		m.LastAction.Revealed = m.Players[target].Hand[0]

	case CardDuelist:
		mine := m.Players[seat].Hand[0]
		theirs := m.Players[target].Hand[0]
		if mine < theirs {
			m.eliminate(seat)
		} else if theirs < mine {
			m.eliminate(target)
		}

	case CardWard:
		m.Players[seat].Immune = true

	case CardPurge:
		m.purge(target)

	case CardChancellor:
		n := uint8(2)
		if m.DeckLen < 2 {
			n = m.DeckLen
		}
		if n == 0 {
			// Nothing to draw: the play is a plain discard.
			return
		}
		for i := uint8(0); i < n; i++ {
			m.giveCard(seat, m.mustDraw())
		}
		m.Pending = PendingAction{Kind: PendingChancellor, Resolver: seat, Returns: n}
		m.Status = StatusPendingAction

	case CardTrade:
		m.Players[seat].Hand[0], m.Players[target].Hand[0] =
			m.Players[target].Hand[0], m.Players[seat].Hand[0]

	case CardCursedIdol:
		// No effect when legally played; its weight is the forced-discard
		// precondition in PlayTurn.

	case CardRelic:
		// Elimination is handled after effect resolution in PlayTurn.
	}
}

// purge makes the target discard their hand card and draw a replacement.
// With the draw pile empty the burned card serves as the reserve; with
// neither available the effect is a no-op.
func (m *Match) purge(target uint8) {
	if m.DeckLen == 0 && m.Burned == NoCard {
		return
	}
	p := &m.Players[target]
	dropped := p.Hand[0]
	p.Discards[p.DiscardLen] = dropped
	p.DiscardLen++
	p.HandLen = 0

	if m.DeckLen > 0 {
		m.giveCard(target, m.mustDraw())
	} else {
		m.giveCard(target, m.Burned)
		m.Burned = NoCard
	}

	// A forced Relic discard eliminates, evaluated after the redraw.
	if dropped == CardRelic {
		m.eliminate(target)
	}
}

// finishTurn runs the shared post-effect transition: elimination victory
// ends the round at once, otherwise the turn pointer advances (possibly
// into the deck-exhaustion reveal).
func (m *Match) finishTurn() {
	if winner := m.soleSurvivor(); winner != NoSeat {
		m.endRound(winner)
		return
	}
	m.advanceTurn()
}

// hasLegalTarget reports whether any seat may legally be targeted by card.
func (m *Match) hasLegalTarget(seat uint8, card Card) bool {
	if card.AllowsSelfTarget() {
		return true // the actor is always a legal Purge target
	}
	for p := uint8(0); p < m.NumPlayers; p++ {
		if p == seat {
			continue
		}
		if m.Players[p].Alive && !m.Players[p].Immune {
			return true
		}
	}
	return false
}

// checkTarget validates an explicit target choice for a targeted card.
func (m *Match) checkTarget(seat uint8, card Card, target uint8) error {
	if target >= m.NumPlayers {
		return fmt.Errorf("%w: seat %d", ErrInvalidTarget, target)
	}
	if target == seat {
		if !card.AllowsSelfTarget() {
			return fmt.Errorf("%w: %s may not target yourself", ErrInvalidTarget, card)
		}
		return nil
	}
	if !m.Players[target].Alive {
		return fmt.Errorf("%w: seat %d is eliminated", ErrInvalidTarget, target)
	}
	if m.Players[target].Immune {
		return fmt.Errorf("%w: seat %d is immune", ErrInvalidTarget, target)
	}
	return nil
}
