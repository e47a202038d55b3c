package main

import (
	"errors"
	"movielib/proj/internal/domain/filters"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/services/movies"
	"net/http"
)

type createMovieRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description" validate:"max=5000"`
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	var req createMovieRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	movie, err := app.Services.Movies.Create(r.Context(), app.userFromContext(r), req.Title, req.Description)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"movie": movie}, "Movie created")
}

type listMoviesQuery struct {
	Title string `schema:"title"`
	filters.Filters
}

func (app *Application) getMovies(w http.ResponseWriter, r *http.Request) {
	query := listMoviesQuery{
		Filters: filters.Filters{
			Page:         1,
			PageSize:     20,
			Sort:         "id",
			SortSafelist: []string{"id", "title", "created_at"},
		},
	}
	if !app.decodeQuery(w, r, &query) {
		return
	}
	if errs := validator.ValidateStruct(app.validator, query); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	if !query.ValidSort() {
		app.Http.BadRequest(w, r, "unsupported sort value: "+query.Sort)
		return
	}
	moviesList, metadata, err := app.Services.Movies.List(r.Context(), query.Title, query.Filters)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": moviesList, "metadata": metadata}, "")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	movie, err := app.Services.Movies.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

type updateMovieRequest struct {
	Title       string `json:"title" validate:"omitempty,max=500"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

func (app *Application) updateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var req updateMovieRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	movie, err := app.Services.Movies.Update(r.Context(), app.userFromContext(r), id, req.Title, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, movies.ErrNotOwner):
			app.Http.Forbidden(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "Movie updated")
}

func (app *Application) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	err := app.Services.Movies.Delete(r.Context(), app.userFromContext(r), id)
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, movies.ErrNotOwner):
			app.Http.Forbidden(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.NoContent(w, r)
}
