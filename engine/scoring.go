package engine

// endRound scores a finished round: the winner takes a token, the Scout
// bonus is checked, and the match either finishes or parks in RoundEnd
// awaiting the next StartRound.
func (m *Match) endRound(winner uint8) {
	m.LastAction.RoundOver = true
	m.LastAction.RoundWinner = winner
	m.lastWinner = int8(winner)

	if scout := m.scoutBonusSeat(); scout != NoSeat {
		m.Players[scout].Tokens++
		m.LastAction.ScoutBonus = scout
	}
	m.Players[winner].Tokens++

	for p := uint8(0); p < m.NumPlayers; p++ {
		if m.Players[p].Tokens >= m.Rules.tokensToWin() {
			m.Status = StatusFinished
			m.Winner = int8(p)
			m.LastAction.GameOver = true
			return
		}
	}
	m.Status = StatusRoundEnd
}

// scoutBonusSeat scans every discard pile plus the hands of players still
// alive for the Scout (value 0). The bonus is awarded only when exactly
// one seat qualifies.
func (m *Match) scoutBonusSeat() uint8 {
	holder := NoSeat
	for p := uint8(0); p < m.NumPlayers; p++ {
		if !m.seatTouchedScout(p) {
			continue
		}
		if holder != NoSeat {
			return NoSeat // more than one qualifier: no bonus
		}
		holder = p
	}
	return holder
}

func (m *Match) seatTouchedScout(seat uint8) bool {
	p := &m.Players[seat]
	for i := uint8(0); i < p.DiscardLen; i++ {
		if p.Discards[i] == CardScout {
			return true
		}
	}
	if p.Alive {
		for i := uint8(0); i < p.HandLen; i++ {
			if p.Hand[i] == CardScout {
				return true
			}
		}
	}
	return false
}
