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

type RatingModel struct {
	DB *pgxpool.Pool
}

// ForeignKeyViolationCode is returned when the referenced movie or user row
// is missing.
const ForeignKeyViolationCode = "23503"

// Upsert stores the user's rating for a movie, replacing any rating the same
// user gave before. A single ON CONFLICT statement keeps concurrent ratings
// from producing duplicates.
func (m *RatingModel) Upsert(ctx context.Context, movieID, userID int64, value int32) (*models.Rating, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO ratings (movie_id, user_id, value) VALUES ($1, $2, $3)
		ON CONFLICT (movie_id, user_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING *`,
		movieID,
		userID,
		value,
	)
	rating, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Rating])
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == ForeignKeyViolationCode {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (m *RatingModel) ListForMovie(ctx context.Context, movieID int64) ([]models.Rating, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT id, movie_id, user_id, value, created_at, updated_at FROM ratings WHERE movie_id = $1 ORDER BY id",
		movieID,
	)
	ratings, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Rating])
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
