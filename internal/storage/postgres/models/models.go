package models

import "movielib/proj/internal/storage/postgres"

type Models struct {
	Users    *UserModel
	Movies   *MovieModel
	Ratings  *RatingModel
	Comments *CommentModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Users:    &UserModel{db.Conn},
		Movies:   &MovieModel{db.Conn},
		Ratings:  &RatingModel{db.Conn},
		Comments: &CommentModel{db.Conn},
	}
}
