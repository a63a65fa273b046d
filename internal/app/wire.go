package app

import (
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	httpx "github.com/yungbote/volcano-status-backend/internal/http"
	httpH "github.com/yungbote/volcano-status-backend/internal/http/handlers"
	"github.com/yungbote/volcano-status-backend/internal/observability"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
	"github.com/yungbote/volcano-status-backend/internal/repos"
	"github.com/yungbote/volcano-status-backend/internal/services"
)

type Repos struct {
	Volcano       repos.VolcanoRepo
	CurrentStatus repos.CurrentStatusRepo
	History       repos.HistoryRepo
	View          repos.ViewRepo
}

type Services struct {
	Volcano services.VolcanoService
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Volcano *httpH.VolcanoHandler
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Volcano:       repos.NewVolcanoRepo(db, log),
		CurrentStatus: repos.NewCurrentStatusRepo(db, log),
		History:       repos.NewHistoryRepo(db, log),
		View:          repos.NewViewRepo(db, log),
	}
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Volcano: services.NewVolcanoService(
			db,
			log,
			clockwork.NewRealClock(),
			reposet.Volcano,
			reposet.CurrentStatus,
			reposet.History,
			reposet.View,
			metrics,
		),
	}
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Volcano: httpH.NewVolcanoHandler(log, serviceset.Volcano),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *httpx.Server {
	return httpx.NewServer(httpx.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		HealthHandler:    handlers.Health,
		VolcanoHandler:   handlers.Volcano,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		RequestTimeout:   cfg.RequestTimeout,
	})
}
