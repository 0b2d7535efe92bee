package rules

import (
	"fmt"
)

// Engine applies one event to a game state deterministically. It holds no
// mutable state of its own: (State, Roles, Event) in, (State, Facts) out.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Apply validates and applies a play event. A rejected event returns the
// prior state untouched; validation and mutation are one atomic step from
// the caller's point of view. Correction events carry history semantics and
// are resolved by the Projector, not here.
func (e *Engine) Apply(s State, roles Roles, ev Event) (State, Facts, error) {
	if s.Status == StatusComplete {
		return s, Facts{}, ErrGameClosed
	}
	if ev.Payload == nil {
		return s, Facts{}, invalidEvent(ev.Type, "payload", "must be provided")
	}
	if ev.Type != ev.Payload.EventType() {
		return s, Facts{}, invalidEvent(ev.Type, "type", "does not match payload")
	}
	if err := ev.Payload.Validate(); err != nil {
		return s, Facts{}, err
	}
	if _, ok := roles[ev.Actor]; !ok {
		return s, Facts{}, fmt.Errorf("%w: player %d has no role in this game",
			ErrUnknownPlayer, ev.Actor)
	}

	next := s
	next.Status = StatusInProgress
	side := s.BattingSide()

	facts := Facts{
		Type:          ev.Type,
		Actor:         ev.Actor,
		Result:        result(ev.Payload),
		InningBefore:  s.Inning,
		HalfBefore:    s.Half,
		OutsBefore:    s.Outs,
		StrikesBefore: s.Strikes,
		BasesBefore:   s.Bases,
	}

	var err error
	switch p := ev.Payload.(type) {
	case ShotPayload:
		err = e.applyShot(&next, &facts, side, ev.Actor, p)
	case StealPayload:
		err = e.applySteal(&next, &facts, side, p)
	case BuntPayload:
		err = e.applyBunt(&next, &facts, side, ev.Actor, p)
	case KnockPayload:
		e.applyKnock(&next, &facts, side, p)
	case CorrectionPayload:
		err = invalidEvent(EventCorrection, "type", "corrections are resolved during projection")
	default:
		err = invalidEvent(ev.Type, "type", "unknown event type")
	}
	if err != nil {
		return s, Facts{}, err
	}

	if facts.AtBat || facts.Sacrifice {
		next.AtBat[side]++
	}

	facts.InningAfter = next.Inning
	facts.HalfAfter = next.Half
	facts.OutsAfter = next.Outs
	facts.StrikesAfter = next.Strikes
	facts.BasesAfter = next.Bases

	return next, facts, nil
}

func (e *Engine) applyShot(next *State, facts *Facts, side Side, actor int64, p ShotPayload) error {
	// The shooter is the batter. A player cannot bat while standing on base,
	// or a made shot would put them on two bases at once.
	if next.Bases.Holds(actor) {
		return invalidEvent(EventShot, "actor_id", "actor is already on base")
	}

	switch p.Result {
	case ShotFirst, ShotSecond, ShotThird:
		n, ok := e.cfg.ShotBases[p.Result]
		if !ok || n < 1 || n > 3 {
			return invalidEvent(EventShot, "result", "no advancement configured for tier")
		}
		e.advanceRunners(next, facts, side, n)
		next.Bases.SetOccupant(Base(n-1), actor)
		next.Strikes = 0
		facts.AtBat = true
		facts.Hit = true
	case ShotHome:
		e.advanceRunners(next, facts, side, 3)
		e.scoreRun(next, facts, side, actor, true)
		next.Strikes = 0
		facts.AtBat = true
		facts.Hit = true
	case ShotGrandslam:
		// A grand slam is four runs regardless of base state.
		before := facts.Runs()
		e.advanceRunners(next, facts, side, 3)
		e.scoreRun(next, facts, side, actor, true)
		for facts.Runs()-before < 4 {
			e.scoreRun(next, facts, side, 0, true)
		}
		next.Strikes = 0
		facts.AtBat = true
		facts.Hit = true
	case ShotStrike:
		next.Strikes++
		if next.Strikes >= e.cfg.StrikeLimit {
			facts.AtBat = true
			e.chargeOut(next, facts)
		}
	case ShotOut:
		facts.AtBat = true
		e.chargeOut(next, facts)
	}
	return nil
}

func (e *Engine) applySteal(next *State, facts *Facts, side Side, p StealPayload) error {
	runner := next.Bases.Occupant(p.Target)
	if runner == 0 {
		return invalidEvent(EventSteal, "target_base", "no runner on "+p.Target.String())
	}

	switch p.Result {
	case StealSuccess:
		next.Bases.SetOccupant(p.Target, 0)
		lead := p.Target + Base(e.cfg.StealBases)
		if lead >= BaseHome {
			e.scoreRun(next, facts, side, runner, false)
			break
		}
		if next.Bases.Occupied(lead) {
			return invalidEvent(EventSteal, "target_base", lead.String()+" is already occupied")
		}
		next.Bases.SetOccupant(lead, runner)
	case StealFail:
		next.Bases.SetOccupant(p.Target, 0)
		facts.RunnerOut = runner
		e.chargeOut(next, facts)
	}
	return nil
}

func (e *Engine) applyBunt(next *State, facts *Facts, side Side, actor int64, p BuntPayload) error {
	if next.Bases.Holds(actor) {
		return invalidEvent(EventBunt, "actor_id", "actor is already on base")
	}

	// Win or lose, a bunt goes down as a sacrifice.
	facts.Sacrifice = true

	switch p.Result {
	case BuntSuccess:
		e.advanceRunners(next, facts, side, e.cfg.BuntBases)
		next.Bases.SetOccupant(Base(e.cfg.BuntBases-1), actor)
		next.Strikes = 0
	case BuntFail:
		e.chargeOut(next, facts)
	}
	return nil
}

func (e *Engine) applyKnock(next *State, facts *Facts, side Side, p KnockPayload) {
	for base := BaseFirst; base <= BaseHome; base++ {
		next.Cups[base] += p.count(base)
		facts.CupsKnocked += p.count(base)
	}

	// Resolve from home down so a vacated base can receive the trailing
	// forced runner.
	for _, base := range []Base{BaseHome, BaseThird, BaseSecond, BaseFirst} {
		quota := e.cfg.CupQuota[base]
		if quota < 1 {
			continue
		}
		for next.Cups[base] >= quota {
			next.Cups[base] -= quota
			if base == BaseHome {
				if runner := next.Bases.Occupant(BaseThird); runner != 0 {
					next.Bases.SetOccupant(BaseThird, 0)
					e.scoreRun(next, facts, side, runner, true)
				} else {
					e.scoreRun(next, facts, side, 0, true)
				}
				continue
			}
			e.forceAdvance(next, facts, side, base)
		}
	}
}

// advanceRunners moves every runner up n bases, scoring those who reach
// home. Lead runners move first.
func (e *Engine) advanceRunners(next *State, facts *Facts, side Side, n int64) {
	for _, base := range []Base{BaseThird, BaseSecond, BaseFirst} {
		runner := next.Bases.Occupant(base)
		if runner == 0 {
			continue
		}
		next.Bases.SetOccupant(base, 0)
		target := base + Base(n)
		if target >= BaseHome {
			e.scoreRun(next, facts, side, runner, true)
			continue
		}
		next.Bases.SetOccupant(target, runner)
	}
}

// forceAdvance pushes the occupant of base one base on, chaining through any
// runner already occupying the next base.
func (e *Engine) forceAdvance(next *State, facts *Facts, side Side, base Base) {
	runner := next.Bases.Occupant(base)
	if runner == 0 {
		return
	}
	next.Bases.SetOccupant(base, 0)

	target := base + 1
	for {
		if target >= BaseHome {
			e.scoreRun(next, facts, side, runner, true)
			return
		}
		displaced := next.Bases.Occupant(target)
		next.Bases.SetOccupant(target, runner)
		if displaced == 0 {
			return
		}
		runner = displaced
		target++
	}
}

func (e *Engine) scoreRun(next *State, facts *Facts, side Side, runner int64, battedIn bool) {
	if side == SideHome {
		next.HomeScore++
	} else {
		next.AwayScore++
	}
	facts.RunsScored = append(facts.RunsScored, runner)
	if battedIn {
		facts.RunsBattedIn++
	}
}

// chargeOut increments outs and, at the limit, rolls the half-inning over in
// the same transition so callers never observe outs at the limit. Every out
// ends the current at-bat, so the strike count goes back to zero for the
// next batter.
func (e *Engine) chargeOut(next *State, facts *Facts) {
	next.Outs++
	next.Strikes = 0
	if next.Outs < e.cfg.OutLimit {
		return
	}

	facts.HalfEnded = true
	next.Outs = 0
	next.Bases = Bases{}
	next.Cups = [4]int64{}

	if next.Half == HalfTop {
		next.Half = HalfBottom
		return
	}
	next.Half = HalfTop
	next.Inning++
	if next.Inning > e.cfg.InningLimit && next.HomeScore != next.AwayScore {
		next.Status = StatusComplete
		facts.GameEnded = true
	}
}
