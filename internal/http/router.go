package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpH "github.com/yungbote/volcano-status-backend/internal/http/handlers"
	httpMW "github.com/yungbote/volcano-status-backend/internal/http/middleware"
	"github.com/yungbote/volcano-status-backend/internal/observability"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	HealthHandler  *httpH.HealthHandler
	VolcanoHandler *httpH.VolcanoHandler

	CORSAllowOrigins []string
	RequestTimeout   time.Duration
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSAllowOrigins))
	r.Use(httpMW.RequestTimeout(cfg.RequestTimeout))

	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/health", cfg.HealthHandler.Health)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/v1")
	{
		if cfg.VolcanoHandler != nil {
			v1.POST("/volcano", cfg.VolcanoHandler.Submit)
			v1.GET("/volcano", cfg.VolcanoHandler.List)
			v1.GET("/volcano/:id", cfg.VolcanoHandler.GetByID)
			v1.GET("/volcano/:id/history", cfg.VolcanoHandler.History)
			v1.DELETE("/volcano/:id", cfg.VolcanoHandler.Delete)
		}
	}

	return r
}
