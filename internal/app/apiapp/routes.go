package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sidgureja7803/dev-tinder-server/internal/config"
	authsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/auth"
	feedsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/feed"
	matchessvc "github.com/sidgureja7803/dev-tinder-server/internal/services/matches"
	profilesvc "github.com/sidgureja7803/dev-tinder-server/internal/services/profiles"
	quotasvc "github.com/sidgureja7803/dev-tinder-server/internal/services/quota"
	swipesvc "github.com/sidgureja7803/dev-tinder-server/internal/services/swipes"
	"github.com/sidgureja7803/dev-tinder-server/internal/transport/http/handlers"
)

type Dependencies struct {
	JWTManager     *authsvc.JWTManager
	FeedService    *feedsvc.Service
	SwipeService   *swipesvc.Service
	MatchService   *matchessvc.Service
	QuotaService   *quotasvc.Service
	ProfileService *profilesvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	statsHandler := handlers.NewStatsHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	quotaHandler := handlers.NewQuotaHandler(deps.QuotaService, deps.ProfileService)
	authMW := AuthMiddleware(deps.JWTManager, deps.Logger)
	touchMW := TouchActivityMiddleware(deps.ProfileService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW, touchMW)
		r.Get("/feed", feedHandler.Handle)
		r.Post("/swipes", swipeHandler.Handle)
		r.Get("/swipes/stats", statsHandler.Handle)
		r.Get("/matches", matchesHandler.Handle)
		r.Get("/matches/{user_id}", matchesHandler.Get)
		r.Post("/unmatch", matchesHandler.Unmatch)
		r.Get("/quota", quotaHandler.Handle)
	})
}
