package delivery

import (
	"time"

	"signagestats/internal/delivery/middleware"
	"signagestats/pkg/logger"
	"signagestats/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HTTPRouter struct {
	handlers       *HTTPHandlers
	logger         *logger.Logger
	metrics        *metrics.Metrics
	requestTimeout time.Duration
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics, requestTimeout time.Duration) *HTTPRouter {
	return &HTTPRouter{
		handlers:       handlers,
		logger:         logger,
		metrics:        metrics,
		requestTimeout: requestTimeout,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Timeout(r.requestTimeout))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	router.Use(cors.New(config))

	router.GET("/health", r.handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/", r.handlers.GetAPIInfo)
		v1.GET("", r.handlers.GetAPIInfo)

		ads := v1.Group("/ads")
		{
			ads.GET("", r.handlers.ListAds)
			ads.GET("/:id/stats", r.handlers.GetAdStats)
			ads.GET("/:id/stats/range", r.handlers.GetAdRangeStats)
		}

		v1.GET("/screens/health", r.handlers.GetScreenHealth)

		reports := v1.Group("/reports")
		{
			reports.GET("/:period", r.handlers.GetPeriodReport)
			reports.POST("/run/daily", r.handlers.RunDaily)
			reports.POST("/run/weekly", r.handlers.RunWeekly)
			reports.POST("/run/monthly", r.handlers.RunMonthly)
		}

		export := v1.Group("/export")
		{
			export.POST("/run", r.handlers.ExportRun)
		}
	}

	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
