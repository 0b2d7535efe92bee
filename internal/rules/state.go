package rules

import (
	"errors"
	"fmt"
	"slices"
)

type Half string

const (
	HalfTop    Half = "top"
	HalfBottom Half = "bottom"
)

type GameStatus int64

const (
	StatusScheduled GameStatus = iota
	StatusInProgress
	StatusComplete
)

func (s GameStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case StatusScheduled:
		return []byte(`"scheduled"`), nil
	case StatusInProgress:
		return []byte(`"in_progress"`), nil
	case StatusComplete:
		return []byte(`"complete"`), nil
	default:
		return nil, errors.New("invalid game status")
	}
}

func (s GameStatus) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusInProgress:
		return "in_progress"
	case StatusComplete:
		return "complete"
	default:
		return ""
	}
}

type Side int64

const (
	SideHome Side = iota
	SideAway
)

func (s Side) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	default:
		return ""
	}
}

type Base int64

const (
	BaseFirst Base = iota
	BaseSecond
	BaseThird
	BaseHome
)

var baseNames = [...]string{"first", "second", "third", "home"}

func (b Base) String() string {
	if b < BaseFirst || b > BaseHome {
		return ""
	}
	return baseNames[b]
}

func (b Base) MarshalJSON() ([]byte, error) {
	name := b.String()
	if name == "" {
		return nil, fmt.Errorf("invalid base %d", b)
	}
	return []byte(`"` + name + `"`), nil
}

func (b *Base) UnmarshalJSON(data []byte) error {
	for i, name := range baseNames {
		if string(data) == `"`+name+`"` {
			*b = Base(i)
			return nil
		}
	}
	return fmt.Errorf("unknown base %s", data)
}

// Bases holds the occupant of each base by player id, 0 meaning empty.
type Bases struct {
	First  int64 `json:"first"`
	Second int64 `json:"second"`
	Third  int64 `json:"third"`
}

func (b Bases) Occupant(base Base) int64 {
	switch base {
	case BaseFirst:
		return b.First
	case BaseSecond:
		return b.Second
	case BaseThird:
		return b.Third
	default:
		return 0
	}
}

func (b *Bases) SetOccupant(base Base, playerID int64) {
	switch base {
	case BaseFirst:
		b.First = playerID
	case BaseSecond:
		b.Second = playerID
	case BaseThird:
		b.Third = playerID
	}
}

// Holds reports whether the player is currently on any base.
func (b Bases) Holds(playerID int64) bool {
	return playerID != 0 &&
		(b.First == playerID || b.Second == playerID || b.Third == playerID)
}

func (b Bases) Occupied(base Base) bool {
	return b.Occupant(base) != 0
}

// State is the full scoring state of one game. It is a value: the engine
// never mutates a caller's copy.
type State struct {
	Inning    int64      `json:"inning"`
	Half      Half       `json:"half"`
	Outs      int64      `json:"outs"`
	Strikes   int64      `json:"strikes"`
	Bases     Bases      `json:"bases"`
	Cups      [4]int64   `json:"cups_down"`
	HomeScore int64      `json:"home_score"`
	AwayScore int64      `json:"away_score"`
	Status    GameStatus `json:"status"`

	// AtBat holds the next batting-order index per side, keyed by Side.
	AtBat [2]int64 `json:"at_bat"`
}

// NewState returns the canonical initial state: top of the 1st, no outs,
// empty bases, 0-0.
func NewState() State {
	return State{
		Inning: 1,
		Half:   HalfTop,
		Status: StatusScheduled,
	}
}

// BattingSide returns the side currently at bat. The away team bats the top
// half of every inning.
func (s State) BattingSide() Side {
	if s.Half == HalfTop {
		return SideAway
	}
	return SideHome
}

type Role struct {
	Side     Side   `json:"team"`
	Order    int64  `json:"batting_order"`
	Fielding string `json:"fielding_role"`
}

// Roles maps player ids to their assignment for one game. It is read-only
// input to the engine, mutated only between plays.
type Roles map[int64]Role

// BattingOrder returns the side's player ids sorted by batting-order
// position.
func (r Roles) BattingOrder(side Side) []int64 {
	order := make([]int64, 0)
	for id, role := range r {
		if role.Side == side {
			order = append(order, id)
		}
	}
	slices.SortFunc(order, func(a, b int64) int {
		if r[a].Order != r[b].Order {
			return int(r[a].Order - r[b].Order)
		}
		return int(a - b)
	})
	return order
}

// Batter returns the player due up at the given batting-order index,
// wrapping around the order. Returns 0 when the side has no players.
func (r Roles) Batter(side Side, index int64) int64 {
	order := r.BattingOrder(side)
	if len(order) == 0 {
		return 0
	}
	return order[index%int64(len(order))]
}
