package data

import (
	"sync"
	"time"

	"BeerBaseballApi/internal/rules"
	"BeerBaseballApi/internal/stats"
)

// GameHub owns one live game. All writes for the game go through its mutex,
// so validate, apply, persist and cache happen as one serial step; readers
// get consistent snapshots without touching the database.
type GameHub struct {
	mu        sync.Mutex
	game      *Game
	log       *rules.Log
	engine    *rules.Engine
	projector *rules.Projector
	state     rules.State
	lines     *stats.Aggregator
	models    Models
}

// NewGameHub loads a game's persisted log and replays it into live state.
func NewGameHub(game *Game, engine *rules.Engine, models Models) (*GameHub, error) {
	hub := &GameHub{
		game:      game,
		log:       rules.NewLog(game.ID),
		engine:    engine,
		projector: rules.NewProjector(engine),
		state:     rules.NewState(),
		lines:     stats.New(),
		models:    models,
	}

	events, err := models.Events.GetAllForGame(game.ID, 0)
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		_, err = hub.log.Append(event)
		if err != nil {
			return nil, err
		}
	}

	state, factsList, err := hub.projector.Replay(hub.log.Read(0), game.Roles)
	if err != nil {
		return nil, err
	}
	hub.state = state
	hub.lines = stats.FromFacts(factsList)

	if game.Status == rules.StatusComplete {
		hub.log.Freeze()
	}

	return hub, nil
}

// Submit validates one event against the current state, persists it, and
// advances the cached state and stat lines. The returned event carries its
// assigned sequence number and outcome facts.
func (h *GameHub) Submit(event rules.Event) (rules.Event, rules.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.log.Frozen() {
		return rules.Event{}, rules.Snapshot{}, rules.ErrGameClosed
	}

	var next rules.State
	var facts rules.Facts
	var err error

	correction := event.Type == rules.EventCorrection
	if correction {
		next, facts, err = h.projector.ApplyCorrection(h.log.Read(0), h.game.Roles, event)
	} else {
		next, facts, err = h.engine.Apply(h.state, h.game.Roles, event)
	}
	if err != nil {
		return rules.Event{}, rules.Snapshot{}, err
	}

	event.GameID = h.game.ID
	event.Facts = &facts
	// A caller-supplied sequence number is a compare-and-append guard.
	// Check it before the row hits the database so the log and the table
	// cannot diverge.
	if event.Seq != 0 && event.Seq != h.log.Len()+1 {
		return rules.Event{}, rules.Snapshot{}, rules.ErrOutOfOrder
	}
	if event.Seq == 0 {
		event.Seq = h.log.Len() + 1
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	// Durable first. The unique (game_id, seq) pair backstops the mutex.
	err = h.models.Events.Append(&event)
	if err != nil {
		return rules.Event{}, rules.Snapshot{}, err
	}
	_, err = h.log.Append(event)
	if err != nil {
		return rules.Event{}, rules.Snapshot{}, err
	}

	h.state = next
	if correction {
		// A correction can change any earlier outcome, so counters are
		// rebuilt from the effective history rather than patched.
		_, factsList, err := h.projector.Replay(h.log.Read(0), h.game.Roles)
		if err != nil {
			return rules.Event{}, rules.Snapshot{}, err
		}
		h.lines = stats.FromFacts(factsList)
		err = h.persistLines(h.lines.Lines())
		if err != nil {
			return rules.Event{}, rules.Snapshot{}, err
		}
	} else {
		h.lines.Fold(facts)
		touched := make([]stats.PlayerLine, 0)
		for _, id := range stats.Touched(facts) {
			touched = append(touched, h.lines.Line(id))
		}
		err = h.persistLines(touched)
		if err != nil {
			return rules.Event{}, rules.Snapshot{}, err
		}
	}

	if facts.GameEnded {
		h.log.Freeze()
	}

	err = h.updateLive()
	if err != nil {
		return rules.Event{}, rules.Snapshot{}, err
	}

	return event, h.snapshotLocked(), nil
}

// Close ends the game regardless of inning, for rained-out (or drunk-out)
// finishes. Idempotent errors follow the same closed-game rule as events.
func (h *GameHub) Close() (rules.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.log.Frozen() {
		return rules.Snapshot{}, rules.ErrGameClosed
	}

	h.state.Status = rules.StatusComplete
	h.log.Freeze()

	err := h.updateLive()
	if err != nil {
		return rules.Snapshot{}, err
	}

	return h.snapshotLocked(), nil
}

// Snapshot returns the current derived state without touching the log.
func (h *GameHub) Snapshot() rules.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.snapshotLocked()
}

// SnapshotAt rebuilds the state as of a historic sequence number.
func (h *GameHub) SnapshotAt(seq int64) (rules.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	events := h.log.Read(0)
	state, err := h.projector.ProjectAt(events, h.game.Roles, seq)
	if err != nil {
		return rules.Snapshot{}, err
	}

	var last *rules.Event
	for i := range events {
		if events[i].Seq <= seq {
			last = &events[i]
		}
	}

	snapshot := rules.BuildSnapshot(h.game.ID, state, h.game.Roles, last)
	return snapshot, nil
}

// Events returns the log from fromSeq onward, inclusive.
func (h *GameHub) Events(fromSeq int64) []rules.Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.log.Read(fromSeq)
}

// Lines returns the current per-player stat lines.
func (h *GameHub) Lines() []stats.PlayerLine {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.lines.Lines()
}

// SetRoles swaps in a new role assignment mid-game. Recorded facts are not
// reinterpreted; only events applied from here on see the new roles.
func (h *GameHub) SetRoles(roles rules.Roles) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.game.Roles = roles
}

// Line returns one player's current stat line for this game.
func (h *GameHub) Line(playerID int64) (stats.PlayerLine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.game.Roles[playerID]; !ok {
		return stats.PlayerLine{}, rules.ErrUnknownPlayer
	}
	return h.lines.Line(playerID), nil
}

// Game returns a copy of the game row with its live columns as the hub last
// wrote them.
func (h *GameHub) Game() Game {
	h.mu.Lock()
	defer h.mu.Unlock()

	return *h.game
}

// Complete reports whether the game has finished.
func (h *GameHub) Complete() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.log.Frozen()
}

func (h *GameHub) snapshotLocked() rules.Snapshot {
	var last *rules.Event
	events := h.log.Read(0)
	if len(events) > 0 {
		last = &events[len(events)-1]
	}
	return rules.BuildSnapshot(h.game.ID, h.state, h.game.Roles, last)
}

func (h *GameHub) updateLive() error {
	h.game.Status = h.state.Status
	h.game.Inning = h.state.Inning
	h.game.Half = h.state.Half
	h.game.HomeScore = h.state.HomeScore
	h.game.AwayScore = h.state.AwayScore
	h.game.LastSeq = h.log.Len()

	return h.models.Games.UpdateLive(h.game)
}

func (h *GameHub) persistLines(lines []stats.PlayerLine) error {
	for _, line := range lines {
		err := h.models.Stats.Upsert(h.game.ID, line)
		if err != nil {
			return err
		}
	}
	return nil
}
