package main

import (
	"encoding/csv"
	json2 "encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"BeerBaseballApi/internal/rules"
	"BeerBaseballApi/internal/validator"
)

func (app *application) SubmitGameEvent(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Type    rules.EventType  `json:"type"`
		Actor   int64            `json:"actor_id"`
		Seq     int64            `json:"seq"`
		Payload json2.RawMessage `json:"payload"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payload, err := rules.ParsePayload(input.Type, input.Payload)
	if err != nil {
		app.gameErrorResponse(w, r, err)
		return
	}

	hub, err := app.hubForGame(id)
	if err != nil {
		app.gameErrorResponse(w, r, err)
		return
	}

	event := rules.Event{
		Type:    input.Type,
		Actor:   input.Actor,
		Seq:     input.Seq,
		Payload: payload,
	}

	accepted, snapshot, err := hub.Submit(event)
	if err != nil {
		app.gameErrorResponse(w, r, err)
		return
	}

	if accepted.Facts != nil && accepted.Facts.GameEnded {
		app.sendGameSummary(hub)
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{
		"sequence_number": accepted.Seq,
		"facts":           accepted.Facts,
		"snapshot":        snapshot,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetGameEvents(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, err := app.hubForGame(id)
	if err != nil {
		app.gameErrorResponse(w, r, err)
		return
	}

	v := validator.New()
	fromSeq := app.readInt64(r.URL.Query(), "from_seq", 0, v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	events := hub.Events(fromSeq)

	err = app.writeJSON(w, http.StatusOK, envelope{"events": events}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ExportGameEvents streams the full log as CSV, one row per event, for
// spreadsheet disputes after the fact.
func (app *application) ExportGameEvents(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, err := app.hubForGame(id)
	if err != nil {
		app.gameErrorResponse(w, r, err)
		return
	}

	events := hub.Events(0)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="game_%d_events.csv"`, id))

	writer := csv.NewWriter(w)
	err = writer.Write([]string{"seq", "created_at", "type", "actor_id", "result", "runs",
		"inning", "half"})
	if err != nil {
		app.logError(r, err)
		return
	}

	for _, event := range events {
		record := []string{
			strconv.FormatInt(event.Seq, 10),
			event.CreatedAt.Format(time.RFC3339),
			string(event.Type),
			strconv.FormatInt(event.Actor, 10),
			"",
			"",
			"",
			"",
		}
		if event.Facts != nil {
			record[4] = event.Facts.Result
			record[5] = strconv.FormatInt(event.Facts.Runs(), 10)
			record[6] = strconv.FormatInt(event.Facts.InningBefore, 10)
			record[7] = string(event.Facts.HalfBefore)
		}

		err = writer.Write(record)
		if err != nil {
			app.logError(r, err)
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		app.logError(r, err)
	}
}
