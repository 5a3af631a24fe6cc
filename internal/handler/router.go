package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tourlog/internal/auth"
	"tourlog/internal/metrics"
	"tourlog/internal/middleware"
	"tourlog/internal/ratelimit"
	"tourlog/internal/service"
	"tourlog/internal/websocket"
	"tourlog/pkg/response"
)

// RouterConfig carries the transport-level settings of the API
type RouterConfig struct {
	CORSOrigins    []string
	MaxUploadBytes int64
	Tokens         *auth.TokenService
	AuthLimiter    ratelimit.Limiter
	Hub            *websocket.Hub

	// Ping checks the database for /health; nil reports healthy
	Ping func(ctx context.Context) error
}

// Services groups everything the handlers call into
type Services struct {
	Auth     service.AuthService
	Users    service.UserService
	Records  service.RecordService
	Stations service.StationService
	Ports    service.PortService
	Imports  service.ImportService
	Reports  service.ReportService
	Audit    service.AuditService
}

// NewRouter builds the gin engine with all middleware and routes mounted
func NewRouter(cfg RouterConfig, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(),
	)

	// cors rejects an empty origin list; without origins only same-origin clients are served
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", healthCheck(cfg.Ping))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.Hub != nil {
		r.GET("/ws", websocket.ServeWs(cfg.Hub, cfg.Tokens))
	}

	authn := middleware.Authenticate(cfg.Tokens)
	limit := func(c *gin.Context) { c.Next() }
	if cfg.AuthLimiter != nil {
		limit = middleware.RateLimitByIP(cfg.AuthLimiter)
	}

	api := r.Group("/api")
	{
		NewAuthHandler(svc.Auth).RegisterRoutes(api, authn, limit)
		NewUserHandler(svc.Users).RegisterRoutes(api, authn)
		NewRecordHandler(svc.Records, svc.Imports, cfg.MaxUploadBytes).RegisterRoutes(api, authn)
		NewStationHandler(svc.Stations).RegisterRoutes(api, authn)
		NewPortHandler(svc.Ports).RegisterRoutes(api, authn)
		NewReportHandler(svc.Reports).RegisterRoutes(api, authn)
		NewAuditHandler(svc.Audit).RegisterRoutes(api, authn)
		api.GET("/catalog", authn, GetCatalog)
	}

	return r
}

// healthCheck godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func healthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, "database unavailable"))
				return
			}
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"status": "ok"}))
	}
}
