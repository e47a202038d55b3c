package models

import (
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AnonymousUser marks a request that carried no credentials. The
// authenticate middleware always puts either it or a real user in the
// request context.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      int64     `json:"user_id"` // Owning user, the only one allowed to edit or delete
	Version     int32     `json:"version"` // Incremented on every update
	CreatedAt   time.Time `json:"created_at"`
}

type Rating struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movie_id"`
	UserID    int64     `json:"user_id"`
	Value     int32     `json:"value"` // 1 to 5
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingsSummary aggregates all ratings of a single movie.
type RatingsSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Comment struct {
	ID        int64      `json:"id"`
	MovieID   int64      `json:"movie_id"`
	UserID    int64      `json:"user_id"`
	ParentID  *int64     `json:"parent_id,omitempty"` // nil for top-level comments
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	Replies   []*Comment `json:"replies,omitempty" db:"-"`
}
