package models

import (
	"context"
	"errors"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentModel struct {
	DB *pgxpool.Pool
}

func (m *CommentModel) Insert(ctx context.Context, movieID, userID int64, text string, parentID *int64) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		"INSERT INTO comments (movie_id, user_id, text, parent_id) VALUES ($1, $2, $3, $4) RETURNING *",
		movieID,
		userID,
		text,
		parentID,
	)
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == ForeignKeyViolationCode {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (m *CommentModel) Get(ctx context.Context, id int64) (*models.Comment, error) {
	rows, err := m.DB.Query(
		ctx,
		"SELECT id, movie_id, user_id, parent_id, text, created_at FROM comments WHERE id = $1",
		id,
	)
	if err != nil {
		return nil, err
	}
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListForMovie returns all comments of a movie ordered by id, so every
// parent precedes its replies.
func (m *CommentModel) ListForMovie(ctx context.Context, movieID int64) ([]models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT id, movie_id, user_id, parent_id, text, created_at FROM comments WHERE movie_id = $1 ORDER BY id",
		movieID,
	)
	comments, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		return nil, err
	}
	return comments, nil
}
