package rules

// Config carries the house rules. The advancement mapping per shot tier and
// the cup quota per base vary table to table, so they are configuration, not
// constants.
type Config struct {
	// OutLimit is the number of outs ending a half-inning.
	OutLimit int64

	// StrikeLimit is the number of strikes making an out.
	StrikeLimit int64

	// InningLimit completes the game once passed with no tie.
	InningLimit int64

	// CupQuota is the cup count per base (indexed by Base, home included)
	// that must be knocked down to empty the base.
	CupQuota [4]int64

	// ShotBases maps each made-shot tier to the bases everyone advances.
	ShotBases map[ShotResult]int64

	// StealBases and BuntBases are the advancement on a successful steal or
	// bunt.
	StealBases int64
	BuntBases  int64
}

func DefaultConfig() Config {
	return Config{
		OutLimit:    3,
		StrikeLimit: 3,
		InningLimit: 3,
		CupQuota:    [4]int64{1, 1, 1, 1},
		ShotBases: map[ShotResult]int64{
			ShotFirst:  1,
			ShotSecond: 2,
			ShotThird:  3,
		},
		StealBases: 1,
		BuntBases:  1,
	}
}
