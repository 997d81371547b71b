package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Bonattii/secrets-auth-project/internal/core/port"
	"github.com/Bonattii/secrets-auth-project/internal/infra/config"
	"github.com/Bonattii/secrets-auth-project/internal/infra/database"
	"github.com/Bonattii/secrets-auth-project/internal/infra/logger"
	"github.com/Bonattii/secrets-auth-project/internal/infra/security"
	memoryrepo "github.com/Bonattii/secrets-auth-project/internal/repository/memory"
	mongorepo "github.com/Bonattii/secrets-auth-project/internal/repository/mongo"
	"github.com/Bonattii/secrets-auth-project/internal/transport/http/handlers"
	"github.com/Bonattii/secrets-auth-project/internal/transport/http/middleware"
	"github.com/Bonattii/secrets-auth-project/internal/transport/http/routes"
	"github.com/Bonattii/secrets-auth-project/internal/usecase"
)

type Application struct {
	cfg         *config.AppConfig
	engine      *gin.Engine
	logger      *zap.Logger
	mongoClient *mongo.Client
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var (
		users       port.UserRepository
		mongoClient *mongo.Client
	)
	if cfg.Mongo.URI == "memory" {
		// Ephemeral store for local experiments; everything is lost on exit.
		users = memoryrepo.NewUserRepository()
		log.Warn("using in-memory user store")
	} else {
		mongoClient, err = database.NewMongoClient(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, fmt.Errorf("init mongo: %w", err)
		}

		repo := mongorepo.NewUserRepository(mongoClient.Database(cfg.Mongo.Database))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = mongoClient.Disconnect(context.Background())
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		users = repo
	}

	strategy, err := security.NewStrategy(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("init credential strategy: %w", err)
	}
	log.Info("credential strategy selected", zap.String("strategy", strategy.Name()))

	sessions, err := security.NewSessionManager(cfg.Session.Secret, cfg.App.Name, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("init session manager: %w", err)
	}

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	authService := usecase.NewAuthService(users, strategy, log)
	federationService := usecase.NewFederationService(users, log)
	secretService := usecase.NewSecretService(users)

	pages := handlers.NewPageHandler(authService, secretService, sessions, log)

	var oauth *handlers.OAuthHandler
	if cfg.Google.Enabled() {
		oauth = handlers.NewOAuthHandler(federationService, sessions, cfg.Google, log)
		log.Info("federated login enabled", zap.String("provider", "google"))
	}

	engine := routes.Register(routes.Dependencies{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics,
		Pages:   pages,
		OAuth:   oauth,
	})

	return &Application{
		cfg:         cfg,
		engine:      engine,
		logger:      log,
		mongoClient: mongoClient,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.mongoClient != nil {
			_ = a.mongoClient.Disconnect(context.Background())
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting secrets server",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
