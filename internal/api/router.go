package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/orci-tz/mafunzo/internal/logging"
	"github.com/orci-tz/mafunzo/internal/middleware"
	"github.com/orci-tz/mafunzo/internal/services"
)

// maxBodyBytes caps survey submissions and login payloads.
const maxBodyBytes = 1 << 20

// Options configures a Router.
type Options struct {
	CORSOrigins []string
	Version     string
	StartYear   int
	EndYear     int
	Logger      *zap.Logger
}

// Router owns the HTTP surface of the survey service.
type Router struct {
	store     Store
	tokens    *middleware.TokenAuth
	responses *services.ResponseService
	auth      *services.AuthService
	reports   *services.ReportService
	opts      Options
	logger    *zap.Logger
	handler   http.Handler
}

func NewRouter(store Store, tokens *middleware.TokenAuth, opts Options) *Router {
	rt := &Router{
		store:     store,
		tokens:    tokens,
		responses: services.NewResponseService(store),
		auth:      services.NewAuthService(store, tokens.SignToken),
		reports:   services.NewReportService(store, opts.StartYear, opts.EndYear),
		opts:      opts,
		logger:    logging.OrNop(opts.Logger),
	}
	if rt.opts.Version == "" {
		rt.opts.Version = "dev"
	}
	rt.handler = rt.setupRouter()
	return rt
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.handler.ServeHTTP(w, r)
}

func (rt *Router) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(rt.loggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.CORS(rt.opts.CORSOrigins))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LocaleMiddleware)

	r.Get("/health", rt.handleHealth)
	r.Get("/version", rt.handleVersion)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(rt.tokens.WithAuth)

		r.Post("/token/", rt.handleLogin)

		r.Route("/responses", func(r chi.Router) {
			r.Post("/", rt.handleSubmit)
			r.With(middleware.RequireRole(services.RoleViewer, services.RoleAdmin)).Get("/", rt.handleListResponses)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequireRole(services.RoleViewer, services.RoleAdmin))
			r.Get("/summary", rt.handleSummary)
			r.Get("/year-matrix", rt.handleYearMatrix)
			r.Get("/details", rt.handleDetails)
		})
	})

	return r
}

// loggingMiddleware logs HTTP requests using zap
func (rt *Router) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			rt.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
