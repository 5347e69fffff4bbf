package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"touservice/internal/auth"
	"touservice/internal/config"
	httpserver "touservice/internal/http"
	"touservice/internal/http/handlers"
	"touservice/internal/http/middleware"
	redisstore "touservice/internal/redis"
	"touservice/internal/repository"
	"touservice/internal/seed"
	"touservice/internal/service"
	"touservice/internal/ws"
	libdb "touservice/libs/db"
	libredis "touservice/libs/redis"
)

// App wires tou-service dependencies.
type App struct {
	server      *httpserver.Server
	hub         *ws.Hub
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	verifier, err := auth.NewKeyVerifier(cfg.Auth.APIKeyHash)
	if err != nil {
		sqlDB.Close()
		redisClient.Close()
		return nil, err
	}
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenTTL())

	regionRepo := repository.NewRegionRepository(sqlDB)
	chargerRepo := repository.NewChargerRepository(sqlDB)
	periodRepo := repository.NewPricingPeriodRepository(sqlDB)

	periodCache := redisstore.NewStore(redisClient, cfg.CurrentPeriodTTL())
	hub := ws.NewHub(logger)

	touService := service.NewTOUService(regionRepo, chargerRepo, periodRepo, periodCache, hub, logger)

	deps := httpserver.RouterDeps{
		Health:   handlers.NewHealthHandler(),
		Auth:     handlers.NewAuthHandler(verifier, tokens, cfg.TokenTTL(), logger),
		Regions:  handlers.NewRegionsHandler(touService, logger),
		Chargers: handlers.NewChargersHandler(touService, logger),
		Pricing:  handlers.NewPricingHandler(touService, logger),
	}
	if cfg.Dev.SeedEndpoint {
		seeder := seed.NewSeeder(regionRepo, chargerRepo, periodRepo, logger)
		deps.Seed = handlers.NewSeedHandler(seeder, logger)
	}

	deps.PriceFeed = hub.Handler()

	priceAdmin := middleware.RequireRole(tokens, auth.RolePriceAdmin)
	router := httpserver.NewRouter(deps, priceAdmin)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		hub:         hub,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the price feed hub and the HTTP server.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
