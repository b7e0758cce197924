package engine

// Rules holds configurable match rule settings.
type Rules struct {
	MaxPlayers           uint8 // seats in the room (2–6); 0 treated as MaxPlayers
	TokensToWin          uint8 // relics needed to win the match; 0 treated as 3
	TwoPlayerPublicCards uint8 // cards revealed face-up after the burn in a 2-player round
}

// DefaultRules returns the standard Relic of Lies rules.
func DefaultRules() Rules {
	return Rules{
		MaxPlayers:           MaxPlayers,
		TokensToWin:          3,
		TwoPlayerPublicCards: 3,
	}
}

// maxPlayers returns the effective seat limit, clamped to [2, MaxPlayers].
func (r *Rules) maxPlayers() uint8 {
	if r.MaxPlayers < 2 || r.MaxPlayers > MaxPlayers {
		return MaxPlayers
	}
	return r.MaxPlayers
}

// tokensToWin returns the effective win threshold, treating 0 as 3.
func (r *Rules) tokensToWin() uint8 {
	if r.TokensToWin == 0 {
		return 3
	}
	return r.TokensToWin
}
