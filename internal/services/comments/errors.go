package comments

import "errors"

var (
	ErrMovieNotFound   = errors.New("movie not found")
	ErrCommentNotFound = errors.New("parent comment not found")
	ErrParentMismatch  = errors.New("parent comment belongs to a different movie")
)
