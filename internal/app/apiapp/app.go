package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sidgureja7803/dev-tinder-server/internal/config"
	s3infra "github.com/sidgureja7803/dev-tinder-server/internal/infra/s3"
	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"
	redrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/redis"
	authsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/auth"
	feedsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/feed"
	matchessvc "github.com/sidgureja7803/dev-tinder-server/internal/services/matches"
	photossvc "github.com/sidgureja7803/dev-tinder-server/internal/services/photos"
	profilesvc "github.com/sidgureja7803/dev-tinder-server/internal/services/profiles"
	quotasvc "github.com/sidgureja7803/dev-tinder-server/internal/services/quota"
	ratesvc "github.com/sidgureja7803/dev-tinder-server/internal/services/rate"
	swipesvc "github.com/sidgureja7803/dev-tinder-server/internal/services/swipes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("redis init failed, swipe rate limiting disabled", zap.Error(err))
	} else {
		redisClient = c
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, photo links disabled", zap.Error(err))
	} else {
		s3Client = c
	}

	profileRepo := pgrepo.NewProfileRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	candidateRepo := pgrepo.NewCandidateRepo(pool)
	quotaRepo := pgrepo.NewQuotaRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)

	var photoStorage *photossvc.S3Storage
	if s3Client != nil {
		photoStorage = photossvc.NewS3Storage(s3Client, cfg.S3.Bucket)
		if err := photoStorage.EnsureBucket(ctx); err != nil {
			log.Warn("s3 bucket check failed", zap.Error(err))
		}
	}

	var rateLimiter swipesvc.RateLimiter
	if redisClient != nil {
		rateLimiter = ratesvc.NewLimiter(
			redrepo.NewRateRepo(redisClient),
			cfg.RateLimit.SwipesPerMinute,
			cfg.RateLimit.SwipesPer10Seconds,
		)
	}

	quotaService := quotasvc.NewService(quotaRepo, quotasvc.Config{
		Enabled:                 cfg.Quota.Enabled,
		FreeSwipesPerDay:        cfg.Quota.FreeSwipesPerDay,
		PremiumSuperLikesPerDay: cfg.Quota.PremiumSuperLikesPerDay,
	})
	profileService := profilesvc.NewService(profileRepo)

	feedDeps := feedsvc.Dependencies{
		Candidates: candidateRepo,
		Profiles:   profileRepo,
		Quota:      quotaService,
	}
	if photoStorage != nil {
		feedDeps.PhotoSign = photoStorage
	}
	feedService := feedsvc.NewService(feedDeps, feedsvc.Config{
		FreePageSize:      cfg.Matching.FreePageSize,
		PremiumPageSize:   cfg.Matching.PremiumPageSize,
		FreeQueryLimit:    cfg.Matching.FreeQueryLimit,
		PremiumQueryLimit: cfg.Matching.PremiumQueryLimit,
		MaxRadiusKM:       cfg.Matching.MaxRadiusKM,
	})

	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:         pool,
		SwipeStore:   swipeRepo,
		MatchStore:   matchRepo,
		ProfileStore: profileRepo,
		QuotaStore:   quotaRepo,
		RateLimiter:  rateLimiter,
		QuotaView:    quotaService,
	})

	matchesDeps := matchessvc.Dependencies{
		Pool:  pool,
		Store: matchRepo,
	}
	if photoStorage != nil {
		matchesDeps.PhotoSign = photoStorage
	}
	matchesService := matchessvc.NewService(matchesDeps)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		JWTManager:     jwtManager,
		FeedService:    feedService,
		SwipeService:   swipeService,
		MatchService:   matchesService,
		QuotaService:   quotaService,
		ProfileService: profileService,
		Logger:         log,
		Config:         cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
