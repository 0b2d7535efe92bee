package rules

import (
	"fmt"
)

// Snapshot is the live projection handed to readers: the game state plus
// denormalized display fields. It is a cache, always derivable from the
// event log.
type Snapshot struct {
	GameID int64 `json:"game_id"`
	State
	BatterID int64  `json:"batter_id"`
	OnDeckID int64  `json:"on_deck_id"`
	LastSeq  int64  `json:"last_seq"`
	LastPlay string `json:"last_play,omitempty"`
}

// BuildSnapshot derives the display projection from a projected state. last
// may be nil for a game with no events.
func BuildSnapshot(gameID int64, state State, roles Roles, last *Event) Snapshot {
	side := state.BattingSide()
	snapshot := Snapshot{
		GameID:   gameID,
		State:    state,
		BatterID: roles.Batter(side, state.AtBat[side]),
		OnDeckID: roles.Batter(side, state.AtBat[side]+1),
	}

	if last != nil {
		snapshot.LastSeq = last.Seq
		snapshot.LastPlay = summarize(last)
	}
	return snapshot
}

func summarize(ev *Event) string {
	var summary string
	if knock, ok := ev.Payload.(KnockPayload); ok {
		cups := knock.First + knock.Second + knock.Third + knock.Home
		summary = fmt.Sprintf("knock (%d cups) by player %d", cups, ev.Actor)
	} else {
		summary = fmt.Sprintf("%s %s by player %d", ev.Type, result(ev.Payload), ev.Actor)
	}
	if ev.Facts != nil && ev.Facts.Runs() > 0 {
		plural := ""
		if ev.Facts.Runs() > 1 {
			plural = "s"
		}
		summary += fmt.Sprintf(", %d run%s", ev.Facts.Runs(), plural)
	}
	return summary
}
