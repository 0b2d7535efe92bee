package stats

import (
	"testing"

	json2 "encoding/json"

	"BeerBaseballApi/internal/assert"
	"BeerBaseballApi/internal/rules"
)

func testRoles() rules.Roles {
	return rules.Roles{
		1: {Side: rules.SideAway, Order: 1, Fielding: "shooter"},
		2: {Side: rules.SideAway, Order: 2, Fielding: "drinker"},
		3: {Side: rules.SideAway, Order: 3, Fielding: "drinker"},
		4: {Side: rules.SideHome, Order: 1, Fielding: "catcher"},
		5: {Side: rules.SideHome, Order: 2, Fielding: "drinker"},
		6: {Side: rules.SideHome, Order: 3, Fielding: "drinker"},
	}
}

// playedFacts runs a short scripted game through the engine and returns the
// facts in sequence order.
func playedFacts(t *testing.T) []rules.Facts {
	t.Helper()

	engine := rules.NewEngine(rules.DefaultConfig())
	roles := testRoles()
	state := rules.NewState()

	plays := []rules.Event{
		{Type: rules.EventShot, Actor: 1, Payload: rules.ShotPayload{Result: rules.ShotFirst}},
		{Type: rules.EventShot, Actor: 2, Payload: rules.ShotPayload{Result: rules.ShotStrike}},
		{Type: rules.EventShot, Actor: 2, Payload: rules.ShotPayload{Result: rules.ShotSecond}},
		{Type: rules.EventSteal, Actor: 3, Payload: rules.StealPayload{Target: rules.BaseThird, Result: rules.StealSuccess}},
		{Type: rules.EventKnock, Actor: 3, Payload: rules.KnockPayload{Second: 1}},
		{Type: rules.EventBunt, Actor: 3, Payload: rules.BuntPayload{Result: rules.BuntSuccess}},
		{Type: rules.EventShot, Actor: 1, Payload: rules.ShotPayload{Result: rules.ShotOut}},
		{Type: rules.EventShot, Actor: 2, Payload: rules.ShotPayload{Result: rules.ShotGrandslam}},
		{Type: rules.EventShot, Actor: 3, Payload: rules.ShotPayload{Result: rules.ShotOut}},
		{Type: rules.EventShot, Actor: 1, Payload: rules.ShotPayload{Result: rules.ShotOut}},
		{Type: rules.EventShot, Actor: 4, Payload: rules.ShotPayload{Result: rules.ShotFirst}},
		{Type: rules.EventSteal, Actor: 5, Payload: rules.StealPayload{Target: rules.BaseFirst, Result: rules.StealFail}},
	}

	factsList := make([]rules.Facts, 0, len(plays))
	for _, play := range plays {
		next, facts, err := engine.Apply(state, roles, play)
		assert.NilError(t, err)
		factsList = append(factsList, facts)
		state = next
	}
	return factsList
}

func TestIncrementalMatchesReplay(t *testing.T) {
	// Folding facts one at a time must land on the same lines as
	// recomputing from the whole history.
	factsList := playedFacts(t)

	incremental := New()
	for _, facts := range factsList {
		incremental.Fold(facts)
	}
	replayed := FromFacts(factsList)

	for player := int64(1); player <= 6; player++ {
		assert.Equal(t, incremental.Line(player), replayed.Line(player))
	}
}

func TestCountersFromScriptedGame(t *testing.T) {
	a := FromFacts(playedFacts(t))

	one := a.Line(1)
	assert.Equal(t, one.AtBats, int64(3))
	assert.Equal(t, one.Hits, int64(1))
	assert.Equal(t, one.Singles, int64(1))
	assert.Equal(t, one.ShotOuts, int64(2))
	assert.Equal(t, one.Runs, int64(1))

	two := a.Line(2)
	assert.Equal(t, two.AtBats, int64(2))
	assert.Equal(t, two.Hits, int64(2))
	assert.Equal(t, two.Doubles, int64(1))
	assert.Equal(t, two.Grandslams, int64(1))
	assert.Equal(t, two.Strikes, int64(1))
	assert.Equal(t, two.Strikeouts, int64(0))
	assert.Equal(t, two.Runs, int64(2))

	three := a.Line(3)
	assert.Equal(t, three.StealsSuccess, int64(1))
	assert.Equal(t, three.CupsKnocked, int64(1))
	assert.Equal(t, three.Sacrifices, int64(1))
	assert.Equal(t, three.Runs, int64(1))

	// The failed steal put out the runner on first, player 4, not the
	// player who attempted the throw.
	four := a.Line(4)
	assert.Equal(t, four.Singles, int64(1))
	assert.Equal(t, four.StealsCaught, int64(1))

	five := a.Line(5)
	assert.Equal(t, five.StealsCaught, int64(0))
}

func TestStrikeoutCounted(t *testing.T) {
	a := New()
	a.Fold(rules.Facts{Type: rules.EventShot, Actor: 9, Result: string(rules.ShotStrike)})
	a.Fold(rules.Facts{Type: rules.EventShot, Actor: 9, Result: string(rules.ShotStrike)})
	a.Fold(rules.Facts{Type: rules.EventShot, Actor: 9, Result: string(rules.ShotStrike), AtBat: true})

	line := a.Line(9)
	assert.Equal(t, line.Strikes, int64(3))
	assert.Equal(t, line.Strikeouts, int64(1))
	assert.Equal(t, line.AtBats, int64(1))
	assert.Equal(t, line.HitStreak, int64(0))
}

func TestHitStreakIsOrderSensitive(t *testing.T) {
	hit := rules.Facts{Type: rules.EventShot, Actor: 9, Result: string(rules.ShotFirst), AtBat: true, Hit: true}
	out := rules.Facts{Type: rules.EventShot, Actor: 9, Result: string(rules.ShotOut), AtBat: true}

	tests := []struct {
		name        string
		facts       []rules.Facts
		wantStreak  int64
		wantLongest int64
	}{
		{
			name:        "Hits Then Out",
			facts:       []rules.Facts{hit, hit, out},
			wantStreak:  0,
			wantLongest: 2,
		},
		{
			name:        "Out Then Hits",
			facts:       []rules.Facts{out, hit, hit},
			wantStreak:  2,
			wantLongest: 2,
		},
		{
			name:        "Broken And Rebuilt",
			facts:       []rules.Facts{hit, out, hit, hit, hit},
			wantStreak:  3,
			wantLongest: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromFacts(tt.facts)
			line := a.Line(9)
			assert.Equal(t, line.HitStreak, tt.wantStreak)
			assert.Equal(t, line.LongestStreak, tt.wantLongest)
			assert.Equal(t, line.AtBats, int64(len(tt.facts)))
		})
	}
}

func TestPhantomRunsCreditNobody(t *testing.T) {
	a := New()
	a.Fold(rules.Facts{
		Type:         rules.EventShot,
		Actor:        9,
		Result:       string(rules.ShotGrandslam),
		AtBat:        true,
		Hit:          true,
		RunsScored:   []int64{9, 0, 0, 0},
		RunsBattedIn: 4,
	})

	line := a.Line(9)
	assert.Equal(t, line.Runs, int64(1))
	assert.Equal(t, line.RunsBattedIn, int64(4))
	assert.Equal(t, int64(len(a.Lines())), int64(1))
}

func TestLinesSortedByRuns(t *testing.T) {
	a := FromFacts(playedFacts(t))

	lines := a.Lines()
	for i := 1; i < len(lines); i++ {
		if lines[i].Runs > lines[i-1].Runs {
			t.Errorf("lines out of order at %d: %d runs after %d", i, lines[i].Runs, lines[i-1].Runs)
		}
	}
}

func TestDerivedStatsInJSON(t *testing.T) {
	tests := []struct {
		name    string
		line    PlayerLine
		wantAvg string
	}{
		{
			name:    "No At Bats",
			line:    PlayerLine{PlayerID: 1},
			wantAvg: `"batting_avg":"N/A"`,
		},
		{
			name:    "Perfect",
			line:    PlayerLine{PlayerID: 1, AtBats: 2, Hits: 2},
			wantAvg: `"batting_avg":"100%"`,
		},
		{
			name:    "One For Three",
			line:    PlayerLine{PlayerID: 1, AtBats: 3, Hits: 1},
			wantAvg: `"batting_avg":"33.3%"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json2.Marshal(tt.line)
			assert.NilError(t, err)
			assert.StringContains(t, string(body), tt.wantAvg)
		})
	}
}

func TestTouched(t *testing.T) {
	ids := Touched(rules.Facts{
		Type:       rules.EventSteal,
		Actor:      3,
		RunnerOut:  5,
		RunsScored: []int64{2, 0},
	})
	assert.Int64SliceEqual(t, ids, []int64{2, 3, 5})
}
