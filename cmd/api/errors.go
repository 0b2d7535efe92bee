package main

import (
	"errors"
	"fmt"
	"net/http"

	"BeerBaseballApi/internal/data"
	"BeerBaseballApi/internal/rules"
)

func (app *application) logError(r *http.Request, err error) {
	app.logger.PrintError(err, map[string]string{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
	})
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int,
	message any) {
	response := envelope{"error": message}

	err := app.writeJSON(w, status, response, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "the server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request,
	errors map[string]string) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func (app *application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "unable to update the record due to an edit conflict, please try again"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	app.errorResponse(w, r, http.StatusTooManyRequests, message)
}

// gameErrorResponse maps the scoring engine's sentinel errors onto status
// codes. Rejected events and stale sequence numbers are client problems;
// anything unrecognized is ours.
func (app *application) gameErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var mErr data.ModelValidationErr

	switch {
	case errors.Is(err, rules.ErrGameClosed):
		app.errorResponse(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, rules.ErrOutOfOrder):
		app.errorResponse(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, rules.ErrInvalidEvent):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, rules.ErrUnknownPlayer):
		app.errorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, data.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, data.ErrEditConflict):
		app.editConflictResponse(w, r)
	case errors.As(err, &mErr):
		app.failedValidationResponse(w, r, mErr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
