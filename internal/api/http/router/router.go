package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/authkeeper/internal/api/http/handler"
	"github.com/dtroode/authkeeper/internal/api/http/middleware"
	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/model"
)

// Router wires the HTTP surface of the authorization server. It manages
// handler registration and middleware configuration.
type Router struct {
	grantService   handler.GrantService
	sessionService handler.SessionService
	userService    handler.UserService
	clientService  handler.ClientService
	authenticator  middleware.Authenticator
	contextManager model.ContextManager
	ping           func(ctx context.Context) error
	logger         *logger.Logger
}

// New creates a new Router instance over the given services. The ping
// function reports backend store health for the health endpoint.
func New(
	grantService handler.GrantService,
	sessionService handler.SessionService,
	userService handler.UserService,
	clientService handler.ClientService,
	authenticator middleware.Authenticator,
	contextManager model.ContextManager,
	ping func(ctx context.Context) error,
	logger *logger.Logger,
) *Router {
	return &Router{
		grantService:   grantService,
		sessionService: sessionService,
		userService:    userService,
		clientService:  clientService,
		authenticator:  authenticator,
		contextManager: contextManager,
		ping:           ping,
		logger:         logger,
	}
}

// Register builds the route tree with request logging on everything and
// bearer authentication on the /api resource routes.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticator, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle)

	r.registerOAuthRoutes(mux)
	r.registerSessionRoutes(mux)
	r.registerAPIRoutes(mux, authenticate)

	mux.Get("/healthz", r.healthz)

	return mux
}

func (r *Router) registerOAuthRoutes(mux chi.Router) {
	oauthHandler := handler.NewOAuth(r.grantService, r.logger)

	mux.Route("/oauth2", func(mux chi.Router) {
		mux.Get("/auth", oauthHandler.Auth)
		mux.Get("/login", oauthHandler.LoginPage)
		mux.Post("/login", oauthHandler.Login)
		mux.Get("/grant", oauthHandler.GrantPage)
		mux.Post("/grant", oauthHandler.Grant)
		mux.Post("/token", oauthHandler.Token)
	})
}

func (r *Router) registerSessionRoutes(mux chi.Router) {
	sessionHandler := handler.NewSession(r.sessionService, r.logger)

	mux.Route("/api/session", func(mux chi.Router) {
		mux.Post("/login", sessionHandler.Login)
		mux.Post("/logout", sessionHandler.Logout)
		mux.Post("/refresh", sessionHandler.Refresh)
	})
}

func (r *Router) registerAPIRoutes(mux chi.Router, authenticate *middleware.Authenticate) {
	userHandler := handler.NewUser(r.userService, r.contextManager, r.logger)
	clientHandler := handler.NewClient(r.clientService, r.contextManager, r.logger)

	// Logo downloads are public so login and consent pages can embed them.
	mux.Get("/api/client/{id}/image", clientHandler.DownloadImage)

	mux.Group(func(mux chi.Router) {
		mux.Use(authenticate.Handle)

		mux.Get("/api/user", userHandler.GetSelf)
		mux.Put("/api/user", userHandler.UpdateSelf)

		mux.Group(func(mux chi.Router) {
			mux.Use(middleware.RequireRoles(r.contextManager, model.RoleAdmin, model.RoleManager))

			mux.Post("/api/user", userHandler.Create)
			mux.Get("/api/users", userHandler.List)
			mux.Get("/api/user/{id}", userHandler.Get)
			mux.Put("/api/user/{id}", userHandler.Update)
			mux.Delete("/api/user/{id}", userHandler.Delete)
		})

		mux.Post("/api/client", clientHandler.Create)
		mux.Get("/api/client/{id}", clientHandler.Get)
		mux.Put("/api/client/{id}", clientHandler.Update)
		mux.Delete("/api/client/{id}", clientHandler.Delete)
		mux.Post("/api/client/{id}/image", clientHandler.UploadImage)

		mux.With(middleware.RequireRoles(r.contextManager, model.RoleAdmin, model.RoleDev)).
			Get("/api/clients", clientHandler.List)
	})
}

func (r *Router) healthz(w http.ResponseWriter, req *http.Request) {
	if err := r.ping(req.Context()); err != nil {
		r.logger.Error("health check failed", "error", err.Error())
		handler.RenderError(w, apierrors.NewErrStoreUnavailable())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
