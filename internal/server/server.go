package server

import (
	"fmt"
	"net/http"
	"time"

	"zenith-pos/internal/config"
	custommiddleware "zenith-pos/internal/middleware"
	"zenith-pos/internal/repository"
	"zenith-pos/internal/service"
	"zenith-pos/internal/store"
	"zenith-pos/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	backend *Backend
	redis   *redis.Client
}

// NewServer wires repositories, services and handlers over backend. A nil
// redisClient disables the login rate limit.
func NewServer(cfg *config.Config, logger *zap.Logger, backend *Backend, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORSOrigins, !cfg.IsProduction()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Initialize repositories
	opts := []store.Option{store.WithPageSize(cfg.Store.PageSize)}
	userRepo := repository.NewUserRepository(backend, opts...)
	productRepo := repository.NewProductRepository(backend, opts...)
	txRepo := repository.NewTransactionRepository(backend, opts...)
	chatRepo := repository.NewChatRepository(backend, opts...)

	// Initialize services
	userService := service.NewUserService(userRepo, cfg.JWT.Secret)
	productService := service.NewProductService(productRepo)
	txService := service.NewTransactionService(txRepo, service.TransactionOptions{
		VerifyTotals: cfg.POS.VerifyTotals,
		TaxRate:      cfg.POS.TaxRate,
	})
	chatService := service.NewChatService(chatRepo)

	var loginLimiter func(http.Handler) http.Handler
	if redisClient != nil {
		loginLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.LoginAttempts,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit:login",
		}, logger)
	}

	// Register routes
	authMiddleware := custommiddleware.AuthMiddleware(userService, logger)

	transport.NewAuthHandler(userService, logger).RegisterRoutes(router, loginLimiter)
	transport.NewUserHandler(userService, logger).RegisterRoutes(router)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)
	transport.NewTransactionHandler(txService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewChatHandler(chatService, logger).RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		backend: backend,
		redis:   redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("Failed to close store", zap.Error(err))
	}

	_ = s.logger.Sync()
	return nil
}
