// Package server assembles the HTTP handler chain of the backend service.
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskboard/api/handler"
	"github.com/fastygo/taskboard/internal/config"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	"github.com/fastygo/taskboard/internal/middleware"
	"github.com/fastygo/taskboard/internal/router"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	authUC "github.com/fastygo/taskboard/usecase/auth"
	categoryUC "github.com/fastygo/taskboard/usecase/category"
	taskUC "github.com/fastygo/taskboard/usecase/task"
)

// Options tune pieces that tests want to make cheaper.
type Options struct {
	BcryptCost int
	// Registry receives the HTTP metrics; nil disables them.
	Registry *prometheus.Registry
}

// NewHandler wires use cases, handlers and middleware over storage.
func NewHandler(cfg *config.Config, storage *Storage, mon *monitor.Monitor, opts Options, logger *zap.Logger) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	tokens := authUC.NewTokenizer(cfg.JWT.Secret, cfg.JWT.Issuer)
	authUseCase := authUC.New(storage.Users, storage.Sessions, tokens, authUC.Options{
		SessionTTL: cfg.Session.TTL,
		BcryptCost: opts.BcryptCost,
	}, logger.Named("auth"))
	categoryUseCase := categoryUC.New(storage.Categories, logger.Named("category"))
	taskUseCase := taskUC.New(storage.Tasks, storage.Categories, logger.Named("task"))

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, logger, cfg.Session.TTL),
		Category: apiHandler.NewCategoryHandler(categoryUseCase, ctxAdapter, logger),
		Task:     apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, logger),
		Health:   apiHandler.NewHealthHandler(mon, cfg.Storage.Driver, ctxAdapter, logger),
	}

	var metrics *middleware.Metrics
	if cfg.HTTP.EnableMetrics && opts.Registry != nil {
		metrics = middleware.NewMetrics("taskboard", opts.Registry)
		handlers.Metrics = metrics.Handler()
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst, logger)
	r := router.New(handlers, router.Middlewares{
		Auth:      middleware.JWTAuth(authUseCase, cfg.Context.RequestTimeout, logger),
		RateLimit: limiter.Middleware,
	})

	handler := r.Handler
	if metrics != nil {
		handler = metrics.Middleware(handler)
	}
	return handler
}
