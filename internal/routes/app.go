package routes

import (
	"github.com/ntentasd/occupancy-api/internal/cache"
	"github.com/ntentasd/occupancy-api/internal/db"
	"github.com/ntentasd/occupancy-api/internal/occupancy"
	"github.com/rs/zerolog"
)

type App struct {
	Service *occupancy.Service
	Store   *db.DB
	Cache   cache.Cache
	logger  zerolog.Logger
}

func New(svc *occupancy.Service, store *db.DB, cache cache.Cache, logger zerolog.Logger) *App {
	return &App{
		svc,
		store,
		cache,
		logger,
	}
}
