// Package stats folds engine outcome facts into per-player counters. The
// fold is a pure reduction: recomputing a line from a full replay always
// matches incremental updates, except that streak counters depend on
// sequence order and are only meaningful when facts arrive in order.
package stats

import (
	json2 "encoding/json"
	"fmt"
	"math"
	"slices"
	"sync"

	"BeerBaseballApi/internal/rules"
)

// PlayerLine is one player's counters for a game (or, summed, a career).
type PlayerLine struct {
	PlayerID int64 `json:"player_id"`

	AtBats     int64 `json:"at_bats"`
	Hits       int64 `json:"hits"`
	Singles    int64 `json:"singles"`
	Doubles    int64 `json:"doubles"`
	Triples    int64 `json:"triples"`
	Homers     int64 `json:"homers"`
	Grandslams int64 `json:"grandslams"`
	Strikes    int64 `json:"strikes"`
	Strikeouts int64 `json:"strikeouts"`
	ShotOuts   int64 `json:"shot_outs"`

	StealsSuccess int64 `json:"steals_success"`
	StealsCaught  int64 `json:"steals_caught"`
	Sacrifices    int64 `json:"sacrifices"`
	CupsKnocked   int64 `json:"cups_knocked"`

	Runs         int64 `json:"runs"`
	RunsBattedIn int64 `json:"runs_batted_in"`

	HitStreak     int64 `json:"hit_streak"`
	LongestStreak int64 `json:"longest_streak"`
}

// MarshalJSON adds the derived stats, computed from the counters the same
// way at every read.
func (l PlayerLine) MarshalJSON() ([]byte, error) {
	type line PlayerLine
	return json2.Marshal(struct {
		line
		BattingAverage string `json:"batting_avg"`
		StealRate      string `json:"steal_rate"`
	}{
		line:           line(l),
		BattingAverage: ratio(l.Hits, l.AtBats),
		StealRate:      ratio(l.StealsSuccess, l.StealsSuccess+l.StealsCaught),
	})
}

func ratio(made, attempts int64) string {
	value := float64(made) / float64(attempts)
	switch {
	case math.IsNaN(value):
		return "N/A"
	case value == 1:
		return "100%"
	default:
		return fmt.Sprintf("%.1f%%", value*100)
	}
}

// Aggregator accumulates player lines for one game from a stream of facts.
type Aggregator struct {
	mu      sync.Mutex
	players map[int64]*PlayerLine
}

func New() *Aggregator {
	return &Aggregator{players: make(map[int64]*PlayerLine)}
}

// FromFacts recomputes an aggregator from a full, ordered replay.
func FromFacts(factsList []rules.Facts) *Aggregator {
	a := New()
	for _, facts := range factsList {
		a.Fold(facts)
	}
	return a
}

func (a *Aggregator) line(playerID int64) *PlayerLine {
	l, ok := a.players[playerID]
	if !ok {
		l = &PlayerLine{PlayerID: playerID}
		a.players[playerID] = l
	}
	return l
}

// Fold applies one event's facts. Sum counters are order-insensitive; the
// hit streak is not and relies on facts arriving in sequence order.
func (a *Aggregator) Fold(facts rules.Facts) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor := a.line(facts.Actor)

	switch facts.Type {
	case rules.EventShot:
		switch rules.ShotResult(facts.Result) {
		case rules.ShotFirst:
			actor.Singles++
		case rules.ShotSecond:
			actor.Doubles++
		case rules.ShotThird:
			actor.Triples++
		case rules.ShotHome:
			actor.Homers++
		case rules.ShotGrandslam:
			actor.Grandslams++
		case rules.ShotStrike:
			actor.Strikes++
			if facts.AtBat {
				actor.Strikeouts++
			}
		case rules.ShotOut:
			actor.ShotOuts++
		}
	case rules.EventSteal:
		if facts.RunnerOut != 0 {
			a.line(facts.RunnerOut).StealsCaught++
		} else {
			actor.StealsSuccess++
		}
	case rules.EventBunt:
		actor.Sacrifices++
	case rules.EventKnock:
		actor.CupsKnocked += facts.CupsKnocked
	}

	if facts.AtBat {
		actor.AtBats++
		if facts.Hit {
			actor.Hits++
			actor.HitStreak++
			if actor.HitStreak > actor.LongestStreak {
				actor.LongestStreak = actor.HitStreak
			}
		} else {
			actor.HitStreak = 0
		}
	}

	actor.RunsBattedIn += facts.RunsBattedIn
	for _, runner := range facts.RunsScored {
		if runner == 0 {
			continue
		}
		a.line(runner).Runs++
	}
}

// Line returns a copy of one player's counters.
func (a *Aggregator) Line(playerID int64) PlayerLine {
	a.mu.Lock()
	defer a.mu.Unlock()

	l, ok := a.players[playerID]
	if !ok {
		return PlayerLine{PlayerID: playerID}
	}
	return *l
}

// Lines returns copies of every accumulated line, runs scored descending.
func (a *Aggregator) Lines() []PlayerLine {
	a.mu.Lock()
	defer a.mu.Unlock()

	lines := make([]PlayerLine, 0, len(a.players))
	for _, l := range a.players {
		lines = append(lines, *l)
	}
	slices.SortFunc(lines, func(x, y PlayerLine) int {
		if x.Runs != y.Runs {
			return int(y.Runs - x.Runs)
		}
		return int(x.PlayerID - y.PlayerID)
	})
	return lines
}

// Touched returns the player ids whose line an event's facts would change,
// for targeted persistence.
func Touched(facts rules.Facts) []int64 {
	ids := map[int64]bool{facts.Actor: true}
	if facts.RunnerOut != 0 {
		ids[facts.RunnerOut] = true
	}
	for _, runner := range facts.RunsScored {
		if runner != 0 {
			ids[runner] = true
		}
	}

	out := make([]int64, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
