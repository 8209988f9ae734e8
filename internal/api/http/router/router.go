package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/gophcheck-server/internal/api/http/handler"
	"github.com/dtroode/gophcheck-server/internal/api/http/middleware"
	"github.com/dtroode/gophcheck-server/internal/logger"
	"github.com/dtroode/gophcheck-server/internal/model"
)

// SessionService issues and verifies staff sessions.
type SessionService interface {
	handler.SessionService
	middleware.SessionVerifier
}

// Options holds the transport settings of the router.
type Options struct {
	Cookie handler.CookieOptions

	// TrustForwardedHeaders installs chi's RealIP so the client IP comes from
	// proxy headers. When false the peer address is used.
	TrustForwardedHeaders bool
}

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	sessionService    SessionService
	redemptionService handler.RedemptionService
	diag              *handler.Diag
	opts              Options
	contextManager    model.ContextManager
	logger            *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	sessionService SessionService,
	redemptionService handler.RedemptionService,
	diag *handler.Diag,
	opts Options,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		sessionService:    sessionService,
		redemptionService: redemptionService,
		diag:              diag,
		opts:              opts,
		contextManager:    contextManager,
		logger:            logger,
	}
}

// Register builds the routing tree. Security headers are applied to every
// response, including redirects and errors from the gatekeeper.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	security := middleware.NewSecurityHeaders(r.contextManager)
	gatekeeper := middleware.NewGatekeeper(r.sessionService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	if r.opts.TrustForwardedHeaders {
		mux.Use(chimw.RealIP)
	}
	mux.Use(
		logging.Handler,
		chimw.Recoverer,
		security.Handler,
		gatekeeper.Handler,
	)

	r.registerPageRoutes(mux)
	r.registerAPIRoutes(mux)

	return mux
}

func (r *Router) registerPageRoutes(mux chi.Router) {
	pages := handler.NewPages(r.contextManager, r.logger)

	mux.Get("/healthz", handler.Healthz)
	mux.Get(middleware.LoginPath, pages.StaffLogin)
	mux.Get("/check", pages.Check)
	mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/check", http.StatusTemporaryRedirect)
	})
}

func (r *Router) registerAPIRoutes(mux chi.Router) {
	sessionHandler := handler.NewSession(r.sessionService, r.opts.Cookie, r.logger)
	redemptionHandler := handler.NewRedemption(r.redemptionService, r.contextManager, r.logger)

	mux.Route("/api", func(api chi.Router) {
		api.Post("/staff-session", sessionHandler.Login)
		api.Delete("/staff-session", sessionHandler.Logout)
		api.Post("/verify-code", redemptionHandler.VerifyCode)
		api.Get("/diag", r.diag.Diag)
	})
}
