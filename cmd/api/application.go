package main

import (
	"log/slog"
	"movielib/proj/internal/config"
	"movielib/proj/internal/services"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	Services  *services.Services
	validator *govalidator.Validate
}

func NewApplication(cfg *config.Config, log *slog.Logger, svcs *services.Services) *Application {
	return &Application{
		cfg:       cfg,
		log:       log,
		validator: govalidator.New(govalidator.WithRequiredStructEnabled()),
		Services:  svcs,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
