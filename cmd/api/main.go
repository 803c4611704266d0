// @title           User Directory API
// @version         1.0
// @description     Authenticated CRUD over a user directory with Basic login and bearer tokens.
// @BasePath        /api/v1
// @securityDefinitions.basic  BasicAuth
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/api"
	"github.com/99minutos/user-directory/internal/api/handler"
	"github.com/99minutos/user-directory/internal/core/ports"
	"github.com/99minutos/user-directory/internal/core/service"
	"github.com/99minutos/user-directory/internal/infrastructure/db/memory"
	"github.com/99minutos/user-directory/internal/infrastructure/db/mongo"
	"github.com/99minutos/user-directory/internal/infrastructure/db/postgres"
	"github.com/99minutos/user-directory/internal/infrastructure/db/redis"
	"github.com/99minutos/user-directory/internal/infrastructure/security"
	"github.com/99minutos/user-directory/internal/pkg/config"
	"github.com/99minutos/user-directory/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "user-directory",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repo, pingers, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var cache ports.UserCache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = redis.NewUserCache(rdb, cfg.Redis.CacheTTL)
		pingers["redis"] = redis.Pinger{Client: rdb}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("user cache enabled")
	}

	key, err := security.GenerateKey(cfg.Token.KeyBits)
	if err != nil {
		return err
	}
	tokens := security.NewTokenService(key,
		security.WithIssuer(cfg.Token.Issuer),
		security.WithTTL(cfg.Token.TTL),
	)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	users := service.NewUserService(repo, hasher, cache, logger.Component("users"))
	auth := service.NewAuthService(repo, hasher, tokens, logger.Component("auth"))

	if cfg.SeedUsers {
		if err := service.Seed(ctx, repo, users, service.DefaultSeed, log); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Dependencies{
		AuthService: auth,
		UserService: users,
		Logger:      logger.Component("http"),
		BasePath:    cfg.BaseURL,
		Pingers:     pingers,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore selects the credential store named by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserRepository, map[string]handler.Pinger, func(), error) {
	pingers := map[string]handler.Pinger{}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		pingers["postgres"] = handler.PingFunc(db.PingContext)
		log.Info().Msg("postgres store ready")
		return postgres.NewUserRepository(db), pingers, func() { _ = db.Close() }, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, nil, err
		}
		pingers["mongodb"] = mongo.Pinger{Client: client}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return repo, pingers, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memory.NewUserRepository(), pingers, func() {}, nil
	}
}
