package game

import (
	"github.com/google/uuid"

	"github.com/relicoflies/relic/engine"
)

// PlayerView is the public slice of one seat's state. Hand contents are
// only present in the viewer's own entry.
type PlayerView struct {
	ID       uuid.UUID `json:"id"`
	Seat     uint8     `json:"seat"`
	Alive    bool      `json:"alive"`
	Immune   bool      `json:"immune"`
	Tokens   uint8     `json:"tokens"`
	HandSize uint8     `json:"handSize"`
	Discards []int     `json:"discards"`
}

// MatchView is the obfuscated match snapshot rendered to one player. The
// presentation layer polls or receives this read-only view; it computes
// nothing itself.
type MatchView struct {
	RoomID      uuid.UUID    `json:"roomId"`
	Status      string       `json:"status"`
	RoundNumber uint16       `json:"roundNumber"`
	Pot         uint64       `json:"pot"`
	DeckLen     uint8        `json:"deckLen"`
	FaceUp      []int        `json:"faceUp,omitempty"`
	ActingID    uuid.UUID    `json:"acting"`
	Players     []PlayerView `json:"players"`
	YourHand    []int        `json:"yourHand"`
}

func statusString(s engine.Status) string {
	switch s {
	case engine.StatusWaiting:
		return "waiting"
	case engine.StatusPlaying:
		return "playing"
	case engine.StatusPendingAction:
		return "pending_action"
	case engine.StatusRoundEnd:
		return "round_end"
	case engine.StatusFinished:
		return "finished"
	}
	return "unknown"
}

// ViewFor renders the match as seen by viewerID: every hand but the
// viewer's own is reduced to a count. Assumes lock is held by caller.
func (g *RelicGame) ViewFor(viewerID uuid.UUID) MatchView {
	m := &g.Engine

	view := MatchView{
		RoomID:      g.ID,
		Status:      statusString(m.Status),
		RoundNumber: m.RoundNumber,
		Pot:         m.Pot,
		DeckLen:     m.DeckLen,
		YourHand:    []int{},
	}
	for i := uint8(0); i < m.FaceUpLen; i++ {
		view.FaceUp = append(view.FaceUp, int(m.FaceUp[i]))
	}
	if m.Status == engine.StatusPlaying || m.Status == engine.StatusPendingAction {
		view.ActingID = g.SeatToPlayer[m.ActingPlayer()]
	}

	for seat := uint8(0); seat < m.NumPlayers; seat++ {
		p := &m.Players[seat]
		pv := PlayerView{
			ID:       g.SeatToPlayer[seat],
			Seat:     seat,
			Alive:    p.Alive,
			Immune:   p.Immune,
			Tokens:   p.Tokens,
			HandSize: p.HandLen,
			Discards: []int{},
		}
		for i := uint8(0); i < p.DiscardLen; i++ {
			pv.Discards = append(pv.Discards, int(p.Discards[i]))
		}
		view.Players = append(view.Players, pv)

		if g.SeatToPlayer[seat] == viewerID {
			for i := uint8(0); i < p.HandLen; i++ {
				view.YourHand = append(view.YourHand, int(p.Hand[i]))
			}
		}
	}
	return view
}

// broadcastSyncStateToAll sends each connected player their private view.
// Assumes lock is held by caller.
func (g *RelicGame) broadcastSyncStateToAll() {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range g.Players {
		if !p.Connected {
			continue
		}
		view := g.ViewFor(p.ID)
		g.BroadcastToPlayerFn(p.ID, GameEvent{Type: EventPrivateSyncState, State: &view})
	}
}
