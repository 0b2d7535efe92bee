package main

import (
	"errors"
	"net/http"

	"BeerBaseballApi/internal/data"
	"BeerBaseballApi/internal/rules"
	"BeerBaseballApi/internal/stats"
	"BeerBaseballApi/internal/validator"
)

func (app *application) InsertGame(w http.ResponseWriter, r *http.Request) {
	var input struct {
		HomeName string      `json:"home_name"`
		AwayName string      `json:"away_name"`
		Roles    rules.Roles `json:"roles"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	game := &data.Game{
		HomeName: input.HomeName,
		AwayName: input.AwayName,
	}

	v := validator.New()
	if data.ValidateGame(v, game); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Games.Insert(game)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(input.Roles) > 0 {
		err = app.models.Games.AssignRoles(game, input.Roles)
		if err != nil {
			app.gameErrorResponse(w, r, err)
			return
		}
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"game": game}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	game, err := app.models.Games.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"game": game}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetAllGames(w http.ResponseWriter, r *http.Request) {
	filter := app.readString(r.URL.Query(), "status", "")

	v := validator.New()
	v.Check(validator.PermittedValue(filter, "", "scheduled", "in-progress", "complete"),
		"status", `must be one of "scheduled", "in-progress", "complete"`)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	var status *rules.GameStatus
	switch filter {
	case "scheduled":
		s := rules.StatusScheduled
		status = &s
	case "in-progress":
		s := rules.StatusInProgress
		status = &s
	case "complete":
		s := rules.StatusComplete
		status = &s
	}

	games, err := app.models.Games.GetAll(status)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"games": games}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) AssignGameRoles(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	game, err := app.models.Games.Get(id)
	if err != nil {
		app.gameErrorResponse(w, r, err)
		return
	}

	var input struct {
		Roles rules.Roles `json:"roles"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.models.Games.AssignRoles(game, input.Roles)
	if err != nil {
		app.gameErrorResponse(w, r, err)
		return
	}

	// A loaded hub keeps its own roles copy; swap it so the next event sees
	// the substitution.
	app.hubMu.Lock()
	if hub, ok := app.gamesInProgress[id]; ok {
		hub.SetRoles(input.Roles)
	}
	app.hubMu.Unlock()

	err = app.writeJSON(w, http.StatusOK, envelope{"game": game}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CloseGame(w http.ResponseWriter, r *http.Request) {
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

	snapshot, err := hub.Close()
	if err != nil {
		app.gameErrorResponse(w, r, err)
		return
	}

	app.sendGameSummary(hub)

	err = app.writeJSON(w, http.StatusOK, envelope{"snapshot": snapshot}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetGameSnapshot(w http.ResponseWriter, r *http.Request) {
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
	atSeq := app.readInt64(r.URL.Query(), "at_seq", -1, v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	var snapshot rules.Snapshot
	if atSeq >= 0 {
		snapshot, err = hub.SnapshotAt(atSeq)
		if err != nil {
			app.gameErrorResponse(w, r, err)
			return
		}
	} else {
		snapshot = hub.Snapshot()
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"snapshot": snapshot}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetGameStats(w http.ResponseWriter, r *http.Request) {
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
	playerID := app.readInt64(r.URL.Query(), "player_id", 0, v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if playerID != 0 {
		line, err := hub.Line(playerID)
		if err != nil {
			app.gameErrorResponse(w, r, err)
			return
		}
		err = app.writeJSON(w, http.StatusOK, envelope{"stats": line}, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"stats": hub.Lines()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// hubForGame returns the live hub for a game, loading and replaying its log
// on first touch. Hubs are kept for completed games too so snapshot and stat
// reads stay cheap.
func (app *application) hubForGame(id int64) (*data.GameHub, error) {
	app.hubMu.Lock()
	defer app.hubMu.Unlock()

	if hub, ok := app.gamesInProgress[id]; ok {
		return hub, nil
	}

	game, err := app.models.Games.Get(id)
	if err != nil {
		return nil, err
	}

	hub, err := data.NewGameHub(game, app.engine, app.models)
	if err != nil {
		return nil, err
	}
	app.gamesInProgress[id] = hub

	return hub, nil
}

// sendGameSummary emails the final score and stat lines to every rostered
// player with an address on file.
func (app *application) sendGameSummary(hub *data.GameHub) {
	game := hub.Game()
	lines := hub.Lines()

	// The inning counter sits at the top of the next inning once the last
	// bottom half rolls over.
	innings := game.Inning
	if game.Half == rules.HalfTop && innings > 1 {
		innings--
	}

	summary := struct {
		HomeName  string
		AwayName  string
		HomeScore int64
		AwayScore int64
		Innings   int64
		Lines     []stats.PlayerLine
	}{
		HomeName:  game.HomeName,
		AwayName:  game.AwayName,
		HomeScore: game.HomeScore,
		AwayScore: game.AwayScore,
		Innings:   innings,
		Lines:     lines,
	}

	for playerID := range game.Roles {
		player, err := app.models.Players.Get(playerID)
		if err != nil || player.Email == "" {
			continue
		}

		recipient := player.Email
		app.backgroundTask(func() {
			err := app.mailer.Send(recipient, "game_summary.tmpl", summary)
			if err != nil {
				app.logger.PrintError(err, map[string]string{
					"recipient": recipient,
				})
			}
		})
	}
}
