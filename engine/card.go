package engine

// Card is a value in [0, 9]. Each value maps to one effect family.
type Card uint8

const (
	CardScout      Card = 0 // bonus token if sole holder at round end
	CardKnight     Card = 1 // name a card; correct guess eliminates the target
	CardSeer       Card = 2 // privately look at the target's hand
	CardDuelist    Card = 3 // compare hands; strictly lower is eliminated
	CardWard       Card = 4 // immune to targeting until the start of your next turn
	CardPurge      Card = 5 // target discards their hand and draws a new card
	CardChancellor Card = 6 // draw 2, keep 1, return the rest to the deck bottom
	CardTrade      Card = 7 // swap hands with the target
	CardCursedIdol Card = 8 // must be discarded if held with Purge or Trade
	CardRelic      Card = 9 // leaving your hand by play or discard eliminates you
)

// NoCard marks the absence of a card (empty guess, no reveal, consumed burn).
const NoCard Card = 0xFF

// cardCounts is the canonical multiplicity of each value in a fresh deck.
// The counts sum to DeckSize (21).
var cardCounts = [10]uint8{2, 6, 2, 2, 2, 2, 2, 1, 1, 1}

// Count returns how many copies of c exist in a full deck.
func (c Card) Count() uint8 {
	if c > CardRelic {
		return 0
	}
	return cardCounts[c]
}

// NeedsTarget reports whether playing c requires choosing a target player.
func (c Card) NeedsTarget() bool {
	switch c {
	case CardKnight, CardSeer, CardDuelist, CardPurge, CardTrade:
		return true
	}
	return false
}

// AllowsSelfTarget reports whether c may legally target its own player.
// Only Purge allows it.
func (c Card) AllowsSelfTarget() bool { return c == CardPurge }

// String returns the card's display name.
func (c Card) String() string {
	switch c {
	case CardScout:
		return "Scout"
	case CardKnight:
		return "Knight"
	case CardSeer:
		return "Seer"
	case CardDuelist:
		return "Duelist"
	case CardWard:
		return "Ward"
	case CardPurge:
		return "Purge"
	case CardChancellor:
		return "Chancellor"
	case CardTrade:
		return "Trade"
	case CardCursedIdol:
		return "Cursed Idol"
	case CardRelic:
		return "Relic"
	}
	return "none"
}
