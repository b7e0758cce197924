package engine

// buildDeck fills the draw pile with the canonical 21-card composition.
// Order is undefined until shuffleDeck runs.
func (m *Match) buildDeck() {
	idx := 0
	for v := Card(0); v <= CardRelic; v++ {
		for n := uint8(0); n < cardCounts[v]; n++ {
			m.Deck[idx] = v
			idx++
		}
	}
	m.DeckLen = DeckSize
}

// shuffleDeck applies a Fisher–Yates shuffle over the draw pile.
func (m *Match) shuffleDeck() {
	for i := int(m.DeckLen) - 1; i > 0; i-- {
		j := int(m.randN(uint64(i + 1)))
		m.Deck[i], m.Deck[j] = m.Deck[j], m.Deck[i]
	}
}

// draw removes and returns the top card of the draw pile.
func (m *Match) draw() (Card, error) {
	if m.DeckLen == 0 {
		return NoCard, ErrEmptyDeck
	}
	m.DeckLen--
	return m.Deck[m.DeckLen], nil
}

// mustDraw draws where the caller has already established the pile is
// non-empty (round setup).
func (m *Match) mustDraw() Card {
	c, _ := m.draw()
	return c
}

// peekTop returns the next card to be drawn without removing it.
func (m *Match) peekTop() Card {
	if m.DeckLen == 0 {
		return NoCard
	}
	return m.Deck[m.DeckLen-1]
}

// insertAtBottom places a card underneath the entire draw pile.
func (m *Match) insertAtBottom(c Card) {
	for i := m.DeckLen; i > 0; i-- {
		m.Deck[i] = m.Deck[i-1]
	}
	m.Deck[0] = c
	m.DeckLen++
}

// insertManyAtBottom pushes cards under the draw pile in the submitted
// order: cards[0] will be drawn before cards[1], and so on. The order is
// preserved exactly as submitted.
func (m *Match) insertManyAtBottom(cards []Card) {
	for _, c := range cards {
		m.insertAtBottom(c)
	}
}
