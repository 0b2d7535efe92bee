package data

import (
	"context"
	"database/sql"
	json2 "encoding/json"
	"time"

	"BeerBaseballApi/internal/rules"
)

type EventModel struct {
	db *sql.DB
}

// Append persists one accepted event. The UNIQUE (game_id, seq) constraint
// is the durable arbiter for concurrent appends; a losing writer gets the
// sequence conflict back.
func (m *EventModel) Append(event *rules.Event) error {
	payload, err := json2.Marshal(event.Payload)
	if err != nil {
		return err
	}
	facts, err := json2.Marshal(event.Facts)
	if err != nil {
		return err
	}

	stmt := `
		INSERT INTO game_events (game_id, seq, type, actor_id, payload, facts)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	args := []any{
		event.GameID,
		event.Seq,
		event.Type,
		event.Actor,
		payload,
		facts,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = m.db.QueryRowContext(ctx, stmt, args...).Scan(&event.CreatedAt)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint `+
			`"game_events_game_id_seq_key"`:
			return rules.ErrOutOfOrder
		default:
			return err
		}
	}

	return nil
}

// GetAllForGame loads a game's log in sequence order, starting at fromSeq
// inclusive, decoding payloads back through the same strict parser that
// admitted them. 0 and 1 both mean the whole log, matching rules.Log.Read.
func (m *EventModel) GetAllForGame(gameID, fromSeq int64) ([]rules.Event, error) {
	stmt := `
		SELECT game_id, seq, type, actor_id, created_at, payload, facts
		FROM game_events
		WHERE game_id = $1 AND seq >= $2
		ORDER BY seq`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.db.QueryContext(ctx, stmt, gameID, fromSeq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []rules.Event{}
	for rows.Next() {
		var event rules.Event
		var payload, facts []byte
		err := rows.Scan(
			&event.GameID,
			&event.Seq,
			&event.Type,
			&event.Actor,
			&event.CreatedAt,
			&payload,
			&facts,
		)
		if err != nil {
			return nil, err
		}

		event.Payload, err = rules.ParsePayload(event.Type, payload)
		if err != nil {
			return nil, err
		}

		if len(facts) > 0 && string(facts) != "null" {
			event.Facts = &rules.Facts{}
			err = json2.Unmarshal(facts, event.Facts)
			if err != nil {
				return nil, err
			}
		}

		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
