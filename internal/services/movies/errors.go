package movies

import "errors"

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrNotOwner      = errors.New("movie can only be modified by its owner")
)
