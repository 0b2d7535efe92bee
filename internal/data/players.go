package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"BeerBaseballApi/internal/validator"
)

type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"-"`
	Version   int32     `json:"-"`
	IsActive  bool      `json:"active"`
}

type PlayerModel struct {
	db *sql.DB
}

func (m *PlayerModel) Insert(player *Player) error {
	stmt := `
		INSERT INTO players (name, email, is_active)
		VALUES ($1, $2, true)
		RETURNING id, created_at, version, is_active`

	args := []any{
		player.Name,
		player.Email,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.db.QueryRowContext(ctx, stmt, args...).Scan(&player.ID, &player.CreatedAt,
		&player.Version, &player.IsActive)
}

func (m *PlayerModel) Get(id int64) (*Player, error) {
	stmt := `
		SELECT id, name, email, created_at, version, is_active
		FROM players
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	player := &Player{}
	err := m.db.QueryRowContext(ctx, stmt, id).Scan(
		&player.ID,
		&player.Name,
		&player.Email,
		&player.CreatedAt,
		&player.Version,
		&player.IsActive,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return player, nil
}

func (m *PlayerModel) GetAll() ([]*Player, error) {
	stmt := `
		SELECT id, name, email, created_at, version, is_active
		FROM players
		WHERE is_active = true
		ORDER BY name`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []*Player{}
	for rows.Next() {
		player := &Player{}
		err := rows.Scan(
			&player.ID,
			&player.Name,
			&player.Email,
			&player.CreatedAt,
			&player.Version,
			&player.IsActive,
		)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return players, nil
}

// Delete deactivates a player rather than removing the row, so historic
// event logs and stat lines keep their references.
func (m *PlayerModel) Delete(id int64) error {
	stmt := `
		UPDATE players
		SET is_active = false, version = version + 1
		WHERE id = $1 AND is_active = true`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.db.ExecContext(ctx, stmt, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func ValidatePlayer(v *validator.Validator, player *Player) {
	v.Check(player.Name != "", "name", "must be provided")
	v.Check(len(player.Name) > 1, "name", "must be greater than 1 character")
	v.Check(len(player.Name) <= 40, "name", "must be 40 characters or less")

	if player.Email != "" {
		v.Check(strings.Contains(player.Email, "@"), "email", "must be a valid email address")
	}
}
