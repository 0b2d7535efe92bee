package rules

// Facts is the outcome snapshot captured when an event is applied: the state
// delta plus the statistical attribution. History carries its own facts so
// replays stay meaningful across rule-config changes.
type Facts struct {
	Type   EventType `json:"type"`
	Actor  int64     `json:"actor_id"`
	Result string    `json:"result"`

	InningBefore  int64 `json:"inning_before"`
	InningAfter   int64 `json:"inning_after"`
	HalfBefore    Half  `json:"half_before"`
	HalfAfter     Half  `json:"half_after"`
	OutsBefore    int64 `json:"outs_before"`
	OutsAfter     int64 `json:"outs_after"`
	StrikesBefore int64 `json:"strikes_before"`
	StrikesAfter  int64 `json:"strikes_after"`
	BasesBefore   Bases `json:"bases_before"`
	BasesAfter    Bases `json:"bases_after"`

	// RunsScored lists runner ids in the order they crossed home; 0 marks a
	// run with no runner attached (grandslam padding, emptied home quota).
	RunsScored   []int64 `json:"runs_scored,omitempty"`
	RunsBattedIn int64   `json:"runs_batted_in"`

	AtBat       bool  `json:"at_bat"`
	Hit         bool  `json:"hit"`
	Sacrifice   bool  `json:"sacrifice"`
	CupsKnocked int64 `json:"cups_knocked"`
	RunnerOut   int64 `json:"runner_out,omitempty"`

	HalfEnded bool `json:"half_ended"`
	GameEnded bool `json:"game_ended"`
}

// Runs is the number of runs the event scored for the batting team.
func (f Facts) Runs() int64 {
	return int64(len(f.RunsScored))
}
