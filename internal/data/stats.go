package data

import (
	"context"
	"database/sql"
	"time"

	"BeerBaseballApi/internal/stats"
)

type StatsModel struct {
	db *sql.DB
}

// Upsert writes one player's line for one game. Lines are overwritten
// whole; corrections rewrite them from the effective history, so the row
// never needs incremental arithmetic.
func (m *StatsModel) Upsert(gameID int64, line stats.PlayerLine) error {
	stmt := `
		INSERT INTO game_stats (game_id, player_id, at_bats, hits, singles, doubles,
			triples, homers, grandslams, strikes, strikeouts, shot_outs,
			steals_success, steals_caught, sacrifices, cups_knocked, runs,
			runs_batted_in, hit_streak, longest_streak)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			at_bats = EXCLUDED.at_bats, hits = EXCLUDED.hits,
			singles = EXCLUDED.singles, doubles = EXCLUDED.doubles,
			triples = EXCLUDED.triples, homers = EXCLUDED.homers,
			grandslams = EXCLUDED.grandslams, strikes = EXCLUDED.strikes,
			strikeouts = EXCLUDED.strikeouts, shot_outs = EXCLUDED.shot_outs,
			steals_success = EXCLUDED.steals_success,
			steals_caught = EXCLUDED.steals_caught,
			sacrifices = EXCLUDED.sacrifices, cups_knocked = EXCLUDED.cups_knocked,
			runs = EXCLUDED.runs, runs_batted_in = EXCLUDED.runs_batted_in,
			hit_streak = EXCLUDED.hit_streak, longest_streak = EXCLUDED.longest_streak`

	args := []any{
		gameID,
		line.PlayerID,
		line.AtBats,
		line.Hits,
		line.Singles,
		line.Doubles,
		line.Triples,
		line.Homers,
		line.Grandslams,
		line.Strikes,
		line.Strikeouts,
		line.ShotOuts,
		line.StealsSuccess,
		line.StealsCaught,
		line.Sacrifices,
		line.CupsKnocked,
		line.Runs,
		line.RunsBattedIn,
		line.HitStreak,
		line.LongestStreak,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := m.db.ExecContext(ctx, stmt, args...)
	return err
}

// GetAllForGame returns a game's persisted lines, runs scored descending.
func (m *StatsModel) GetAllForGame(gameID int64) ([]stats.PlayerLine, error) {
	stmt := `
		SELECT player_id, at_bats, hits, singles, doubles, triples, homers,
			grandslams, strikes, strikeouts, shot_outs, steals_success,
			steals_caught, sacrifices, cups_knocked, runs, runs_batted_in,
			hit_streak, longest_streak
		FROM game_stats
		WHERE game_id = $1
		ORDER BY runs DESC, player_id`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLines(rows)
}

// GetCareer sums a player's lines across every game. Streak columns are
// within-game counters, so the career row reports the longest one rather
// than a sum.
func (m *StatsModel) GetCareer(playerID int64) (stats.PlayerLine, error) {
	stmt := `
		SELECT player_id, COALESCE(SUM(at_bats), 0), COALESCE(SUM(hits), 0),
			COALESCE(SUM(singles), 0), COALESCE(SUM(doubles), 0),
			COALESCE(SUM(triples), 0), COALESCE(SUM(homers), 0),
			COALESCE(SUM(grandslams), 0), COALESCE(SUM(strikes), 0),
			COALESCE(SUM(strikeouts), 0), COALESCE(SUM(shot_outs), 0),
			COALESCE(SUM(steals_success), 0), COALESCE(SUM(steals_caught), 0),
			COALESCE(SUM(sacrifices), 0), COALESCE(SUM(cups_knocked), 0),
			COALESCE(SUM(runs), 0), COALESCE(SUM(runs_batted_in), 0),
			0, COALESCE(MAX(longest_streak), 0)
		FROM game_stats
		WHERE player_id = $1
		GROUP BY player_id`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var line stats.PlayerLine
	err := m.db.QueryRowContext(ctx, stmt, playerID).Scan(
		&line.PlayerID,
		&line.AtBats,
		&line.Hits,
		&line.Singles,
		&line.Doubles,
		&line.Triples,
		&line.Homers,
		&line.Grandslams,
		&line.Strikes,
		&line.Strikeouts,
		&line.ShotOuts,
		&line.StealsSuccess,
		&line.StealsCaught,
		&line.Sacrifices,
		&line.CupsKnocked,
		&line.Runs,
		&line.RunsBattedIn,
		&line.HitStreak,
		&line.LongestStreak,
	)
	if err != nil {
		switch {
		case err == sql.ErrNoRows:
			return stats.PlayerLine{PlayerID: playerID}, nil
		default:
			return stats.PlayerLine{}, err
		}
	}

	return line, nil
}

func scanLines(rows *sql.Rows) ([]stats.PlayerLine, error) {
	lines := []stats.PlayerLine{}
	for rows.Next() {
		var line stats.PlayerLine
		err := rows.Scan(
			&line.PlayerID,
			&line.AtBats,
			&line.Hits,
			&line.Singles,
			&line.Doubles,
			&line.Triples,
			&line.Homers,
			&line.Grandslams,
			&line.Strikes,
			&line.Strikeouts,
			&line.ShotOuts,
			&line.StealsSuccess,
			&line.StealsCaught,
			&line.Sacrifices,
			&line.CupsKnocked,
			&line.Runs,
			&line.RunsBattedIn,
			&line.HitStreak,
			&line.LongestStreak,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
