package rules

import (
	"fmt"
)

// Projector folds an ordered event history through the engine from the
// canonical initial state. It is pure: projecting the same history twice
// yields identical snapshots.
type Projector struct {
	engine *Engine
}

func NewProjector(engine *Engine) *Projector {
	return &Projector{engine: engine}
}

// Project folds the whole history into the current state.
func (p *Projector) Project(events []Event, roles Roles) (State, error) {
	state, _, err := p.fold(events, roles)
	return state, err
}

// ProjectAt reconstructs the state as of sequence number seq, for audit and
// fact verification.
func (p *Projector) ProjectAt(events []Event, roles Roles, seq int64) (State, error) {
	prefix := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Seq > seq {
			break
		}
		prefix = append(prefix, ev)
	}
	return p.Project(prefix, roles)
}

// Replay folds the history and returns the facts of the plays currently in
// effect (corrections applied), in sequence order. Stats recomputation runs
// on this.
func (p *Projector) Replay(events []Event, roles Roles) (State, []Facts, error) {
	state, effective, err := p.fold(events, roles)
	if err != nil {
		return State{}, nil, err
	}

	factsList := make([]Facts, 0, len(effective))
	replayed := NewState()
	for _, ev := range effective {
		next, facts, err := p.engine.Apply(replayed, roles, ev)
		if err != nil {
			return State{}, nil, fmt.Errorf("replaying event %d: %w", ev.Seq, err)
		}
		replayed = next
		factsList = append(factsList, facts)
	}
	return state, factsList, nil
}

// ApplyCorrection resolves a candidate correction event against the history:
// the superseded play is reversed and the replacement (if any) applied in
// its place. The correction's facts are the observed state delta.
func (p *Projector) ApplyCorrection(events []Event, roles Roles, ev Event) (State, Facts, error) {
	payload, ok := ev.Payload.(CorrectionPayload)
	if !ok {
		return State{}, Facts{}, invalidEvent(ev.Type, "payload", "must be a correction")
	}
	if err := payload.Validate(); err != nil {
		return State{}, Facts{}, err
	}

	before, err := p.Project(events, roles)
	if err != nil {
		return State{}, Facts{}, err
	}
	if before.Status == StatusComplete {
		return State{}, Facts{}, ErrGameClosed
	}

	after, _, err := p.fold(append(append([]Event{}, events...), ev), roles)
	if err != nil {
		return State{}, Facts{}, err
	}

	facts := Facts{
		Type:          EventCorrection,
		Actor:         ev.Actor,
		Result:        "correction",
		InningBefore:  before.Inning,
		InningAfter:   after.Inning,
		HalfBefore:    before.Half,
		HalfAfter:     after.Half,
		OutsBefore:    before.Outs,
		OutsAfter:     after.Outs,
		StrikesBefore: before.Strikes,
		StrikesAfter:  after.Strikes,
		BasesBefore:   before.Bases,
		BasesAfter:    after.Bases,
		HalfEnded:     before.Half != after.Half || before.Inning != after.Inning,
		GameEnded:     after.Status == StatusComplete,
	}
	return after, facts, nil
}

// fold runs the history in order, maintaining the list of effective plays.
// Play events apply incrementally; a correction substitutes or voids its
// superseded play and refolds from the initial state, since everything after
// the superseded point may shift.
func (p *Projector) fold(events []Event, roles Roles) (State, []Event, error) {
	state := NewState()
	effective := make([]Event, 0, len(events))

	for _, ev := range events {
		if ev.Type != EventCorrection {
			next, _, err := p.engine.Apply(state, roles, ev)
			if err != nil {
				return State{}, nil, fmt.Errorf("applying event %d: %w", ev.Seq, err)
			}
			state = next
			effective = append(effective, ev)
			continue
		}

		payload, ok := ev.Payload.(CorrectionPayload)
		if !ok {
			return State{}, nil, invalidEvent(EventCorrection, "payload", "malformed correction")
		}

		idx := -1
		for i, e := range effective {
			if e.Seq == payload.Supersedes {
				idx = i
				break
			}
		}
		if idx == -1 {
			return State{}, nil, invalidEvent(EventCorrection, "supersedes",
				"no play with that sequence number is in effect")
		}

		if payload.Replacement == nil {
			effective = append(effective[:idx], effective[idx+1:]...)
		} else {
			replacement, err := ParsePayload(payload.Replacement.Type, payload.Replacement.Payload)
			if err != nil {
				return State{}, nil, err
			}
			actor := payload.Replacement.Actor
			if actor == 0 {
				actor = effective[idx].Actor
			}
			effective[idx] = Event{
				GameID:    ev.GameID,
				Seq:       effective[idx].Seq,
				Type:      payload.Replacement.Type,
				Actor:     actor,
				CreatedAt: effective[idx].CreatedAt,
				Payload:   replacement,
			}
		}

		state = NewState()
		for _, e := range effective {
			next, _, err := p.engine.Apply(state, roles, e)
			if err != nil {
				return State{}, nil, fmt.Errorf("refolding event %d: %w", e.Seq, err)
			}
			state = next
		}
	}

	return state, effective, nil
}
