package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Bonattii/secrets-auth-project/internal/infra/config"
	"github.com/Bonattii/secrets-auth-project/internal/transport/http/handlers"
	"github.com/Bonattii/secrets-auth-project/internal/transport/http/middleware"
)

// Dependencies collects everything the router needs.
type Dependencies struct {
	Config  *config.AppConfig
	Logger  *zap.Logger
	Metrics *middleware.HTTPMetrics
	Pages   *handlers.PageHandler
	// OAuth is nil when federated login is not configured; its routes are
	// simply not mounted then.
	OAuth *handlers.OAuthHandler

	// TemplateGlob overrides the template location, for tests.
	TemplateGlob string
}

// Register assembles the gin engine with middleware, templates, and routes.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
	)
	if deps.Metrics != nil {
		engine.Use(deps.Metrics.Handler())
	}

	glob := deps.TemplateGlob
	if glob == "" {
		glob = "web/templates/*.html"
	}
	engine.LoadHTMLGlob(glob)
	engine.Static("/public", "./web/public")

	engine.GET("/healthz", handlers.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.Pages != nil {
		deps.Pages.RegisterRoutes(engine)
	}
	if deps.OAuth != nil {
		deps.OAuth.RegisterRoutes(engine)
	}

	return engine
}
