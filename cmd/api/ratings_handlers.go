package main

import (
	"errors"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/services/ratings"
	"net/http"
)

type rateMovieRequest struct {
	Value int32 `json:"value" validate:"required,gte=1,lte=5" errorMsg:"Rating value must be between 1 and 5"`
}

// rateMovie is an upsert: rating the same movie again replaces the previous
// value, so PUT is the natural verb.
func (app *Application) rateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var req rateMovieRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	rating, err := app.Services.Ratings.Rate(r.Context(), app.userFromContext(r), movieID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, ratings.ErrInvalidRating):
			app.Http.BadRequest(w, r, err.Error())
		case errors.Is(err, ratings.ErrMovieNotFound):
			app.Http.NotFound(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"rating": rating}, "Rating saved")
}

func (app *Application) getRatings(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	ratingsList, summary, err := app.Services.Ratings.ListForMovie(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, ratings.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"ratings": ratingsList, "summary": summary}, "")
}
