package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskboard/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Category *apiHandler.CategoryHandler
	Task     *apiHandler.TaskHandler
	Health   *apiHandler.HealthHandler
	// Metrics is optional; /metrics is only mounted when set.
	Metrics fasthttp.RequestHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// Middlewares groups the per-route wrappers.
type Middlewares struct {
	Auth      Middleware
	RateLimit Middleware
}

func New(handlers Handlers, mw Middlewares) *router.Router {
	r := router.New()
	r.SaveMatchedRoutePath = true

	auth := orPassthrough(mw.Auth)
	limited := orPassthrough(mw.RateLimit)

	r.GET("/health", handlers.Health.Check)
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	// Auth routes
	r.POST("/api/v1/auth/signup", limited(handlers.Auth.SignUp))
	r.POST("/api/v1/auth/token", limited(handlers.Auth.Token))
	r.GET("/api/v1/auth/session", auth(handlers.Auth.Session))
	r.POST("/api/v1/auth/refresh", auth(handlers.Auth.Refresh))
	r.POST("/api/v1/auth/logout", auth(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/v1/categories", auth(handlers.Category.GetCategories))
	r.POST("/api/v1/categories", auth(handlers.Category.CreateCategory))
	r.PUT("/api/v1/categories/{id}", auth(handlers.Category.UpdateCategory))
	r.DELETE("/api/v1/categories/{id}", auth(handlers.Category.DeleteCategory))

	r.GET("/api/v1/tasks", auth(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", auth(handlers.Task.CreateTask))
	r.PUT("/api/v1/tasks/{id}", auth(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", auth(handlers.Task.DeleteTask))

	return r
}

func orPassthrough(mw Middleware) Middleware {
	if mw == nil {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}
	return mw
}
