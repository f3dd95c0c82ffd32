package app

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/lotuss-academy/lms-admin/internal/cache"
	"github.com/lotuss-academy/lms-admin/internal/config"
	"github.com/lotuss-academy/lms-admin/internal/stats"
)

// Deps is built once in main and handed to NewServer.
type Deps struct {
	Config   *config.Config
	LMS      *sql.DB
	Tesco    *sql.DB
	Cache    *cache.Cache
	Stats    *stats.Aggregator
	Log      *zap.Logger
	Sessions sessions.Store
	Views    *Views
}

type Server struct {
	cfg      *config.Config
	lms      *sql.DB
	tesco    *sql.DB
	cache    *cache.Cache
	stats    *stats.Aggregator
	log      *zap.Logger
	sessions sessions.Store
	views    *Views
	locks    *KeyedLock
	validate *validator.Validate
}

func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg:      d.Config,
		lms:      d.LMS,
		tesco:    d.Tesco,
		cache:    d.Cache,
		stats:    d.Stats,
		log:      log,
		sessions: d.Sessions,
		views:    d.Views,
		locks:    NewKeyedLock(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}
