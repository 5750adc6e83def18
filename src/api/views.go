package api

import (
	"net/http"

	"finance/src/api/handlers"
	"finance/src/config"
	"finance/src/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
}

// NewServer wires the routes. gatherer may be nil, in which case /metrics
// is not exposed.
func NewServer(handler *handlers.Handler, logger logrus.FieldLogger, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
	}
	server.Router.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger(logger, m),
		middleware.Recoverer,
		NoCache,
	)
	server.InitRoutes(gatherer)
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes(gatherer prometheus.Gatherer) {
	s.Router.Get("/alive", handlers.Healthcheck)
	if gatherer != nil {
		s.Router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s.Router.Get("/login", s.Handler.GetLogin)
	s.Router.Post("/login", s.Handler.PostLogin)
	s.Router.Get("/register", s.Handler.GetRegister)
	s.Router.Post("/register", s.Handler.PostRegister)
	s.Router.Get("/logout", s.Handler.Logout)

	s.Router.Group(func(r chi.Router) {
		r.Use(RequireSession(s.Handler.Sessions))

		r.Get("/", s.Handler.GetIndex)
		r.Get("/quote", s.Handler.GetQuote)
		r.Post("/quote", s.Handler.PostQuote)
		r.Get("/buy", s.Handler.GetBuy)
		r.Post("/buy", s.Handler.PostBuy)
		r.Get("/sell", s.Handler.GetSell)
		r.Post("/sell", s.Handler.PostSell)
		r.Get("/history", s.Handler.GetHistory)
		r.Get("/history/export", s.Handler.ExportHistory)
	})
}

func NewHTTPServer(cfg *config.Config, server *Server) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + cfg.Service.Port,
		ReadTimeout:  cfg.Service.ReadTimeout,
		WriteTimeout: cfg.Service.WriteTimeout,
		Handler:      server,
	}
	return httpServer
}
