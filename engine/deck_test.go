package engine

import "testing"

// TestBuildDeckComposition verifies the canonical 21-card composition.
func TestBuildDeckComposition(t *testing.T) {
	m := NewMatch(42, DefaultRules())
	m.buildDeck()

	if m.DeckLen != DeckSize {
		t.Fatalf("DeckLen = %d, want %d", m.DeckLen, DeckSize)
	}

	var counts [10]uint8
	for i := uint8(0); i < m.DeckLen; i++ {
		c := m.Deck[i]
		if c > CardRelic {
			t.Fatalf("Deck[%d] = %d, out of range", i, c)
		}
		counts[c]++
	}

	want := [10]uint8{2, 6, 2, 2, 2, 2, 2, 1, 1, 1}
	if counts != want {
		t.Errorf("deck counts = %v, want %v", counts, want)
	}
}

// TestShuffleConservation verifies shuffling permutes without losing cards.
func TestShuffleConservation(t *testing.T) {
	m := NewMatch(7, DefaultRules())
	m.buildDeck()
	m.shuffleDeck()

	if m.DeckLen != DeckSize {
		t.Fatalf("DeckLen = %d after shuffle, want %d", m.DeckLen, DeckSize)
	}
	var counts [10]uint8
	for i := uint8(0); i < m.DeckLen; i++ {
		counts[m.Deck[i]]++
	}
	for v := Card(0); v <= CardRelic; v++ {
		if counts[v] != v.Count() {
			t.Errorf("value %d: count %d, want %d", v, counts[v], v.Count())
		}
	}
}

// TestShuffleDeterministic verifies identical seeds yield identical order.
func TestShuffleDeterministic(t *testing.T) {
	a := NewMatch(99, DefaultRules())
	a.buildDeck()
	a.shuffleDeck()
	b := NewMatch(99, DefaultRules())
	b.buildDeck()
	b.shuffleDeck()

	if a.Deck != b.Deck {
		t.Error("same seed produced different shuffle order")
	}
}

// TestDrawOrder verifies draw pops from the top (highest index).
func TestDrawOrder(t *testing.T) {
	var m Match
	m.Deck[0] = CardScout
	m.Deck[1] = CardKnight
	m.Deck[2] = CardRelic
	m.DeckLen = 3

	c, err := m.draw()
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if c != CardRelic {
		t.Errorf("first draw = %s, want Relic", c)
	}
	if m.DeckLen != 2 {
		t.Errorf("DeckLen = %d after draw, want 2", m.DeckLen)
	}
}

// TestDrawEmpty verifies drawing from an empty pile fails with ErrEmptyDeck.
func TestDrawEmpty(t *testing.T) {
	var m Match
	if _, err := m.draw(); err != ErrEmptyDeck {
		t.Errorf("draw on empty deck: err = %v, want ErrEmptyDeck", err)
	}
}

// TestInsertManyAtBottomOrder verifies returned cards surface in exactly
// the submitted order once the rest of the pile is drawn.
func TestInsertManyAtBottomOrder(t *testing.T) {
	var m Match
	m.Deck[0] = CardWard // current bottom
	m.DeckLen = 1

	m.insertManyAtBottom([]Card{CardTrade, CardRelic})

	if m.DeckLen != 3 {
		t.Fatalf("DeckLen = %d, want 3", m.DeckLen)
	}
	// Draw everything: existing card first, then the inserts in order.
	want := []Card{CardWard, CardTrade, CardRelic}
	for i, w := range want {
		c, err := m.draw()
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if c != w {
			t.Errorf("draw %d = %s, want %s", i, c, w)
		}
	}
}
