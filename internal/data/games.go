package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"BeerBaseballApi/internal/rules"
	"BeerBaseballApi/internal/validator"
)

type Game struct {
	ID        int64            `json:"id"`
	CreatedAt time.Time        `json:"-"`
	Version   int64            `json:"-"`
	Status    rules.GameStatus `json:"status"`
	HomeName  string           `json:"home_name"`
	AwayName  string           `json:"away_name"`

	// Live columns are denormalized from the event log so listings never
	// need a replay. The log stays the source of truth.
	Inning    int64      `json:"inning"`
	Half      rules.Half `json:"half"`
	HomeScore int64      `json:"home_score"`
	AwayScore int64      `json:"away_score"`
	LastSeq   int64      `json:"last_seq"`

	Roles rules.Roles `json:"roles,omitempty"`
}

type GameModel struct {
	db *sql.DB
}

func (m *GameModel) Insert(game *Game) error {
	stmt := `
		INSERT INTO games (status, home_name, away_name, inning, half)
		VALUES ($1, $2, $3, 1, 'top')
		RETURNING id, created_at, version, inning, half`

	args := []any{
		rules.StatusScheduled,
		game.HomeName,
		game.AwayName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(
		&game.ID,
		&game.CreatedAt,
		&game.Version,
		&game.Inning,
		&game.Half,
	)
	if err != nil {
		return err
	}
	game.Status = rules.StatusScheduled

	return nil
}

func (m *GameModel) Get(id int64) (*Game, error) {
	stmt := `
		SELECT id, created_at, version, status, home_name, away_name,
			inning, half, home_score, away_score, last_seq
		FROM games
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	game := &Game{}
	err = tx.QueryRowContext(ctx, stmt, id).Scan(
		&game.ID,
		&game.CreatedAt,
		&game.Version,
		&game.Status,
		&game.HomeName,
		&game.AwayName,
		&game.Inning,
		&game.Half,
		&game.HomeScore,
		&game.AwayScore,
		&game.LastSeq,
	)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return nil, rollbackErr
		}
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	game.Roles, err = getGameRoles(game.ID, tx, ctx)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return nil, rollbackErr
		}
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return game, nil
}

func (m *GameModel) GetAll(status *rules.GameStatus) ([]*Game, error) {
	stmt := `
		SELECT id, created_at, version, status, home_name, away_name,
			inning, half, home_score, away_score, last_seq
		FROM games
		WHERE $1::int IS NULL OR status = $1
		ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var statusArg any
	if status != nil {
		statusArg = int64(*status)
	}

	rows, err := m.db.QueryContext(ctx, stmt, statusArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []*Game{}
	for rows.Next() {
		game := &Game{}
		err := rows.Scan(
			&game.ID,
			&game.CreatedAt,
			&game.Version,
			&game.Status,
			&game.HomeName,
			&game.AwayName,
			&game.Inning,
			&game.Half,
			&game.HomeScore,
			&game.AwayScore,
			&game.LastSeq,
		)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return games, nil
}

// UpdateLive writes the denormalized columns after an accepted event, using
// the version column to spot a lost race.
func (m *GameModel) UpdateLive(game *Game) error {
	stmt := `
		UPDATE games
		SET status = $1, inning = $2, half = $3, home_score = $4, away_score = $5,
			last_seq = $6, version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version`

	args := []any{
		game.Status,
		game.Inning,
		game.Half,
		game.HomeScore,
		game.AwayScore,
		game.LastSeq,
		game.ID,
		game.Version,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := m.db.QueryRowContext(ctx, stmt, args...).Scan(&game.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

// AssignRoles replaces a game's full role assignment. Substitutions are
// allowed until the game completes; past events keep their recorded facts,
// so a new assignment never reinterprets them. Every player already in the
// log must keep a role or replays would dangle.
func (m *GameModel) AssignRoles(game *Game, roles rules.Roles) error {
	mErr := ModelValidationErr{Errors: make(map[string]string)}
	validateRoles(&mErr, roles)
	if !mErr.Valid() {
		return mErr
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var status rules.GameStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM games WHERE id = $1`, game.ID).
		Scan(&status)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if status == rules.StatusComplete {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return rules.ErrGameClosed
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT DISTINCT actor_id FROM game_events WHERE game_id = $1`, game.ID)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}
	for rows.Next() {
		var actor int64
		if err := rows.Scan(&actor); err != nil {
			rows.Close()
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return rollbackErr
			}
			return err
		}
		if _, ok := roles[actor]; !ok {
			rows.Close()
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return rollbackErr
			}
			return NewModelValidationErr("roles",
				"players already in the event log must keep a role")
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}
	rows.Close()

	_, err = tx.ExecContext(ctx, `DELETE FROM game_players WHERE game_id = $1`, game.ID)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	stmt := `
		INSERT INTO game_players (game_id, player_id, side, batting_order, fielding)
		VALUES ($1, $2, $3, $4, $5)`

	for playerID, role := range roles {
		_, err = tx.ExecContext(ctx, stmt, game.ID, playerID, role.Side, role.Order,
			role.Fielding)
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return rollbackErr
			}
			switch {
			case err.Error() == `pq: insert or update on table "game_players" violates `+
				`foreign key constraint "game_players_player_id_fkey"`:
				return rules.ErrUnknownPlayer
			default:
				return err
			}
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	game.Roles = roles
	return nil
}

func getGameRoles(gameID int64, tx *sql.Tx, ctx context.Context) (rules.Roles, error) {
	stmt := `
		SELECT player_id, side, batting_order, fielding
		FROM game_players
		WHERE game_id = $1
		ORDER BY side, batting_order`

	rows, err := tx.QueryContext(ctx, stmt, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := rules.Roles{}
	for rows.Next() {
		var playerID int64
		var role rules.Role
		err := rows.Scan(&playerID, &role.Side, &role.Order, &role.Fielding)
		if err != nil {
			return nil, err
		}
		roles[playerID] = role
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

func validateRoles(mErr *ModelValidationErr, roles rules.Roles) {
	if len(roles) == 0 {
		mErr.AddError("roles", "must assign at least one player to each side")
		return
	}

	orders := map[rules.Side][]int64{}
	for _, role := range roles {
		if role.Side != rules.SideHome && role.Side != rules.SideAway {
			mErr.AddError("side", "must be home or away")
			continue
		}
		if role.Order < 1 {
			mErr.AddError("batting_order", "must be 1 or greater")
			continue
		}
		orders[role.Side] = append(orders[role.Side], role.Order)
	}

	for _, side := range []rules.Side{rules.SideHome, rules.SideAway} {
		if !validator.Unique(orders[side]) {
			mErr.AddError("batting_order", "cannot repeat within a side")
		}
	}

	if len(orders[rules.SideHome]) == 0 || len(orders[rules.SideAway]) == 0 {
		mErr.AddError("roles", "must assign at least one player to each side")
	}
}

func ValidateGame(v *validator.Validator, game *Game) {
	v.Check(game.HomeName != "", "home_name", "must be provided")
	v.Check(len(game.HomeName) <= 40, "home_name", "must be 40 characters or less")
	v.Check(game.AwayName != "", "away_name", "must be provided")
	v.Check(len(game.AwayName) <= 40, "away_name", "must be 40 characters or less")
	v.Check(game.HomeName != game.AwayName, "away_name", "cannot match home team name")
}
