package main

import (
	"errors"
	"movielib/proj/internal/lib/validator"
	"movielib/proj/internal/services/comments"
	"net/http"
)

type addCommentRequest struct {
	Text     string `json:"text" validate:"required,max=5000"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gte=1"`
}

func (app *Application) addComment(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	var req addCommentRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	comment, err := app.Services.Comments.Add(r.Context(), app.userFromContext(r), movieID, req.Text, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, comments.ErrMovieNotFound), errors.Is(err, comments.ErrCommentNotFound):
			app.Http.NotFound(w, r, err.Error())
		case errors.Is(err, comments.ErrParentMismatch):
			app.Http.BadRequest(w, r, err.Error())
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "Comment posted")
}

func (app *Application) getComments(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractIDParam(w, r)
	if !ok {
		return
	}
	tree, err := app.Services.Comments.ListForMovie(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, comments.ErrMovieNotFound) {
			app.Http.NotFound(w, r, err.Error())
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"comments": tree}, "")
}
