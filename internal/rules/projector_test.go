package rules

import (
	"BeerBaseballApi/internal/assert"
	json2 "encoding/json"
	"testing"
)

// scriptedGame appends a varied history through the engine the way the hub
// does: apply, stamp facts, append.
func scriptedGame(t *testing.T, engine *Engine, roles Roles) *Log {
	t.Helper()

	log := NewLog(1)
	state := NewState()

	plays := []Event{
		playEvent(EventShot, 1, ShotPayload{Result: ShotFirst}),
		playEvent(EventShot, 2, ShotPayload{Result: ShotStrike}),
		playEvent(EventShot, 2, ShotPayload{Result: ShotSecond}),
		playEvent(EventSteal, 3, StealPayload{Target: BaseThird, Result: StealSuccess}),
		playEvent(EventKnock, 3, KnockPayload{Second: 1}),
		playEvent(EventBunt, 3, BuntPayload{Result: BuntSuccess}),
		playEvent(EventShot, 1, ShotPayload{Result: ShotOut}),
		playEvent(EventShot, 2, ShotPayload{Result: ShotGrandslam}),
		playEvent(EventShot, 3, ShotPayload{Result: ShotOut}),
		playEvent(EventShot, 1, ShotPayload{Result: ShotOut}),
		playEvent(EventShot, 4, ShotPayload{Result: ShotFirst}),
		playEvent(EventSteal, 5, StealPayload{Target: BaseFirst, Result: StealFail}),
	}

	for _, play := range plays {
		next, facts, err := engine.Apply(state, roles, play)
		assert.NilError(t, err)
		play.Facts = &facts
		_, err = log.Append(play)
		assert.NilError(t, err)
		state = next
	}
	return log
}

func TestProjectionDeterminism(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	projector := NewProjector(engine)
	roles := testRoles()
	log := scriptedGame(t, engine, roles)

	first, err := projector.Project(log.Read(0), roles)
	assert.NilError(t, err)
	second, err := projector.Project(log.Read(0), roles)
	assert.NilError(t, err)
	assert.Equal(t, first, second)
}

func TestProjectionConsistency(t *testing.T) {
	// ProjectAt(N) then applying event N+1 equals ProjectAt(N+1), for every
	// valid N.
	engine := NewEngine(DefaultConfig())
	projector := NewProjector(engine)
	roles := testRoles()
	log := scriptedGame(t, engine, roles)
	events := log.Read(0)

	for n := int64(0); n < log.Len(); n++ {
		atN, err := projector.ProjectAt(events, roles, n)
		assert.NilError(t, err)

		applied, _, err := engine.Apply(atN, roles, events[n])
		assert.NilError(t, err)

		atNext, err := projector.ProjectAt(events, roles, n+1)
		assert.NilError(t, err)
		assert.Equal(t, applied, atNext)
	}
}

func TestReplayMatchesRecordedFacts(t *testing.T) {
	// With no corrections in the history, a fresh recomputation reproduces
	// every event's recorded facts.
	engine := NewEngine(DefaultConfig())
	projector := NewProjector(engine)
	roles := testRoles()
	log := scriptedGame(t, engine, roles)
	events := log.Read(0)

	_, factsList, err := projector.Replay(events, roles)
	assert.NilError(t, err)
	assert.Equal(t, len(factsList), len(events))

	for i, ev := range events {
		got := factsList[i]
		want := *ev.Facts
		assert.Equal(t, got.Type, want.Type)
		assert.Equal(t, got.OutsAfter, want.OutsAfter)
		assert.Equal(t, got.BasesAfter, want.BasesAfter)
		assert.Equal(t, got.Runs(), want.Runs())
		assert.Equal(t, got.AtBat, want.AtBat)
	}
}

func TestCorrectionVoidsPlay(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	projector := NewProjector(engine)
	roles := testRoles()

	log := NewLog(1)
	state := NewState()
	for _, play := range []Event{
		playEvent(EventShot, 1, ShotPayload{Result: ShotFirst}),
		playEvent(EventShot, 2, ShotPayload{Result: ShotOut}),
	} {
		next, facts, err := engine.Apply(state, roles, play)
		assert.NilError(t, err)
		play.Facts = &facts
		_, err = log.Append(play)
		assert.NilError(t, err)
		state = next
	}

	// Void the recorded out: the official scored it wrong.
	correction := playEvent(EventCorrection, 1, CorrectionPayload{Supersedes: 2})
	after, facts, err := projector.ApplyCorrection(log.Read(0), roles, correction)
	assert.NilError(t, err)
	assert.Equal(t, after.Outs, 0)
	assert.Equal(t, after.Bases, Bases{First: 1})
	assert.Equal(t, facts.OutsBefore, 1)
	assert.Equal(t, facts.OutsAfter, 0)

	// Appended, the projection folds it the same way.
	correction.Facts = &facts
	_, err = log.Append(correction)
	assert.NilError(t, err)
	projected, err := projector.Project(log.Read(0), roles)
	assert.NilError(t, err)
	assert.Equal(t, projected, after)
}

func TestCorrectionReplacesPlay(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	projector := NewProjector(engine)
	roles := testRoles()

	log := NewLog(1)
	state := NewState()
	play := playEvent(EventShot, 1, ShotPayload{Result: ShotFirst})
	next, facts, err := engine.Apply(state, roles, play)
	assert.NilError(t, err)
	play.Facts = &facts
	_, err = log.Append(play)
	assert.NilError(t, err)
	state = next

	// The shot was actually a double.
	correction := playEvent(EventCorrection, 1, CorrectionPayload{
		Supersedes: 1,
		Replacement: &ReplacementEvent{
			Type:    EventShot,
			Payload: json2.RawMessage(`{"result":"second"}`),
		},
	})
	after, _, err := projector.ApplyCorrection(log.Read(0), roles, correction)
	assert.NilError(t, err)
	assert.Equal(t, after.Bases, Bases{Second: 1})
}

func TestCorrectionUnknownSequenceRejected(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	projector := NewProjector(engine)
	roles := testRoles()
	log := scriptedGame(t, engine, roles)

	correction := playEvent(EventCorrection, 1, CorrectionPayload{Supersedes: 99})
	_, _, err := projector.ApplyCorrection(log.Read(0), roles, correction)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestProjectEmptyLog(t *testing.T) {
	projector := NewProjector(NewEngine(DefaultConfig()))

	state, err := projector.Project([]Event{}, testRoles())
	assert.NilError(t, err)
	assert.Equal(t, state, NewState())
}

func TestSnapshotDisplayFields(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	projector := NewProjector(engine)
	roles := testRoles()
	log := NewLog(1)

	state := NewState()
	play := playEvent(EventShot, 1, ShotPayload{Result: ShotSecond})
	next, facts, err := engine.Apply(state, roles, play)
	assert.NilError(t, err)
	play.Facts = &facts
	_, err = log.Append(play)
	assert.NilError(t, err)

	events := log.Read(0)
	projected, err := projector.Project(events, roles)
	assert.NilError(t, err)
	assert.Equal(t, projected, next)

	snapshot := BuildSnapshot(1, projected, roles, &events[len(events)-1])
	assert.Equal(t, snapshot.BatterID, 2)
	assert.Equal(t, snapshot.OnDeckID, 3)
	assert.Equal(t, snapshot.LastSeq, 1)
	assert.StringContains(t, snapshot.LastPlay, "shot second")
}
