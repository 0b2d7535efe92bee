package data

import (
	"database/sql"
	"errors"
)

var ErrRecordNotFound = errors.New("record not found")
var ErrEditConflict = errors.New("edit conflict")

type Models struct {
	Players PlayerModel
	Games   GameModel
	Events  EventModel
	Stats   StatsModel
}

func NewModels(initDb *sql.DB) Models {
	return Models{
		Players: PlayerModel{db: initDb},
		Games:   GameModel{db: initDb},
		Events:  EventModel{db: initDb},
		Stats:   StatsModel{db: initDb},
	}
}

type ModelValidationErr struct {
	Errors map[string]string
}

func (e ModelValidationErr) Error() string {
	return "model validation unsuccessful"
}

func NewModelValidationErr(key string, value string) ModelValidationErr {
	return ModelValidationErr{Errors: map[string]string{
		key: value,
	}}
}

func (e ModelValidationErr) AddError(key string, value string) {
	if _, exists := e.Errors[key]; !exists {
		e.Errors[key] = value
	}
}

func (e ModelValidationErr) Valid() bool {
	return len(e.Errors) == 0
}
