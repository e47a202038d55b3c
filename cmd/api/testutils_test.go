package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"movielib/proj/internal/config"
	"movielib/proj/internal/domain/filters"
	"movielib/proj/internal/domain/models"
	"movielib/proj/internal/services"
	"movielib/proj/internal/services/auth"
	"movielib/proj/internal/services/comments"
	"movielib/proj/internal/services/movies"
	"movielib/proj/internal/services/ratings"
	"movielib/proj/internal/storage"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// memDB is an in-memory stand-in for the postgres models, shared by the
// per-interface adapters below.
type memDB struct {
	mu         sync.Mutex
	users      map[int64]*models.User
	movies     map[int64]*models.Movie
	ratings    map[int64]*models.Rating
	comments   map[int64]*models.Comment
	userSeq    int64
	movieSeq   int64
	ratingSeq  int64
	commentSeq int64
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[int64]*models.User),
		movies:   make(map[int64]*models.Movie),
		ratings:  make(map[int64]*models.Rating),
		comments: make(map[int64]*models.Comment),
	}
}

type memUsers struct{ db *memDB }

func (s memUsers) Insert(_ context.Context, username, email string, passwordHash []byte) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Username == username || u.Email == email {
			return nil, storage.ErrConflict
		}
	}
	s.db.userSeq++
	user := &models.User{
		ID:           s.db.userSeq,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.db.users[user.ID] = user
	copied := *user
	return &copied, nil
}

func (s memUsers) Get(_ context.Context, id int64) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user, ok := s.db.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

type memMovies struct{ db *memDB }

func (s memMovies) Get(_ context.Context, id int64) (*models.Movie, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	movie, ok := s.db.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *movie
	return &copied, nil
}

func (s memMovies) Insert(_ context.Context, title, description string, userID int64) (*models.Movie, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.movieSeq++
	movie := &models.Movie{
		ID:          s.db.movieSeq,
		Title:       title,
		Description: description,
		UserID:      userID,
		Version:     1,
		CreatedAt:   time.Now(),
	}
	s.db.movies[movie.ID] = movie
	copied := *movie
	return &copied, nil
}

func (s memMovies) List(_ context.Context, title string, f filters.Filters) ([]models.Movie, int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]models.Movie, 0, len(s.db.movies))
	for id := int64(1); id <= s.db.movieSeq; id++ {
		movie, ok := s.db.movies[id]
		if !ok {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(movie.Title), strings.ToLower(title)) {
			continue
		}
		out = append(out, *movie)
	}
	total := len(out)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.Limit()
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (s memMovies) Update(_ context.Context, movie *models.Movie) (*models.Movie, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	stored, ok := s.db.movies[movie.ID]
	if !ok || stored.Version != movie.Version {
		return nil, storage.ErrNotFound
	}
	updated := *movie
	updated.Version++
	s.db.movies[movie.ID] = &updated
	copied := updated
	return &copied, nil
}

func (s memMovies) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.movies[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.db.movies, id)
	for rid, r := range s.db.ratings {
		if r.MovieID == id {
			delete(s.db.ratings, rid)
		}
	}
	for cid, c := range s.db.comments {
		if c.MovieID == id {
			delete(s.db.comments, cid)
		}
	}
	return nil
}

type memRatings struct{ db *memDB }

func (s memRatings) Upsert(_ context.Context, movieID, userID int64, value int32) (*models.Rating, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.movies[movieID]; !ok {
		return nil, storage.ErrNotFound
	}
	for _, r := range s.db.ratings {
		if r.MovieID == movieID && r.UserID == userID {
			r.Value = value
			r.UpdatedAt = time.Now()
			copied := *r
			return &copied, nil
		}
	}
	s.db.ratingSeq++
	rating := &models.Rating{
		ID:        s.db.ratingSeq,
		MovieID:   movieID,
		UserID:    userID,
		Value:     value,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.db.ratings[rating.ID] = rating
	copied := *rating
	return &copied, nil
}

func (s memRatings) ListForMovie(_ context.Context, movieID int64) ([]models.Rating, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Rating{}
	for id := int64(1); id <= s.db.ratingSeq; id++ {
		if r, ok := s.db.ratings[id]; ok && r.MovieID == movieID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type memComments struct{ db *memDB }

func (s memComments) Insert(_ context.Context, movieID, userID int64, text string, parentID *int64) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.movies[movieID]; !ok {
		return nil, storage.ErrNotFound
	}
	s.db.commentSeq++
	comment := &models.Comment{
		ID:        s.db.commentSeq,
		MovieID:   movieID,
		UserID:    userID,
		ParentID:  parentID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.db.comments[comment.ID] = comment
	copied := *comment
	return &copied, nil
}

func (s memComments) Get(_ context.Context, id int64) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	comment, ok := s.db.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (s memComments) ListForMovie(_ context.Context, movieID int64) ([]models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Comment{}
	for id := int64(1); id <= s.db.commentSeq; id++ {
		if c, ok := s.db.comments[id]; ok && c.MovieID == movieID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func newTestApplication(t *testing.T) (*Application, *memDB) {
	t.Helper()
	cfg := &config.Config{
		AppSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := newMemDB()
	svcs := &services.Services{
		Auth:     auth.New(log, memUsers{db}, nil, nil, cfg.AppSecret, cfg.TokenTTL),
		Movies:   movies.New(log, memMovies{db}),
		Ratings:  ratings.New(log, memRatings{db}, memMovies{db}),
		Comments: comments.New(log, memComments{db}, memMovies{db}),
	}
	return NewApplication(cfg, log, svcs), db
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, reader)
	request.RemoteAddr = "127.0.0.1:4000"
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	var resp response
	if recorder.Body.Len() > 0 {
		// Ignore decode failures, some endpoints (204) have no body.
		json.Unmarshal(recorder.Body.Bytes(), &resp)
	}
	return recorder, resp
}

func decodeData(t *testing.T, resp response, dst any) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		t.Fatalf("decoding response data: %v", err)
	}
}

// signupAndLogin registers a user through the API and returns its access token.
func signupAndLogin(t *testing.T, handler http.Handler, username string) string {
	t.Helper()
	recorder, _ := doRequest(t, handler, http.MethodPost, "/api/v1/accounts/signup", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("signup failed with status %d: %s", recorder.Code, recorder.Body.String())
	}
	recorder, resp := doRequest(t, handler, http.MethodPost, "/api/v1/accounts/login", "", map[string]any{
		"username": username,
		"password": "password123",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", recorder.Code, recorder.Body.String())
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, resp, &data)
	return data.AccessToken
}
