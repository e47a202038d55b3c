package services

import (
	"log/slog"
	"movielib/proj/internal/config"
	"movielib/proj/internal/mails"
	"movielib/proj/internal/services/auth"
	"movielib/proj/internal/services/comments"
	"movielib/proj/internal/services/movies"
	"movielib/proj/internal/services/ratings"
	"movielib/proj/internal/storage/postgres"
	"movielib/proj/internal/storage/postgres/models"
)

type Services struct {
	Auth     *auth.AuthService
	Movies   *movies.MovieService
	Ratings  *ratings.RatingService
	Comments *comments.CommentService
}

func New(log *slog.Logger, cfg *config.Config, storage *postgres.Storage, taskExecutor auth.TaskExecutor) *Services {
	dbModels := models.New(storage)
	var mailer auth.MailProvider
	if cfg.SMTPServer.Enabled {
		mailer = mails.New(
			cfg.SMTPServer.Host,
			cfg.SMTPServer.Port,
			cfg.SMTPServer.Timeout,
			cfg.SMTPServer.Username,
			cfg.SMTPServer.Password,
			cfg.SMTPServer.Sender,
			cfg.SMTPServer.RetriesCount,
		)
	}
	return &Services{
		Auth:     auth.New(log, dbModels.Users, mailer, taskExecutor, cfg.AppSecret, cfg.TokenTTL),
		Movies:   movies.New(log, dbModels.Movies),
		Ratings:  ratings.New(log, dbModels.Ratings, dbModels.Movies),
		Comments: comments.New(log, dbModels.Comments, dbModels.Movies),
	}
}
