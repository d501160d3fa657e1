package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/codearena/internal/config"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	auth2 "gitlab.com/fcv-2025.net/codearena/internal/core/services/auth"
	"gitlab.com/fcv-2025.net/codearena/internal/core/services/contest"
	"gitlab.com/fcv-2025.net/codearena/internal/core/services/language"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers/auth"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers/contests"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers/languages"
)

const shutdownTimeout = 10 * time.Second

type ServiceProvider struct {
	contestService  contest.IContestService
	languageService language.ILanguageService
	jwtService      primary.JWTService

	ggAuth    auth2.IAuthService
	localAuth auth2.ILocalAuthService

	// metricsHandler is mounted on /metrics when set.
	metricsHandler http.Handler
	healthChecks   map[string]handlers.HealthCheck
}

func NewServiceProvider(
	contestService contest.IContestService,
	languageService language.ILanguageService,
	jwtService primary.JWTService,
	ggAuth auth2.IAuthService,
	localAuth auth2.ILocalAuthService,
	metricsHandler http.Handler,
	healthChecks map[string]handlers.HealthCheck,
) *ServiceProvider {
	return &ServiceProvider{
		contestService:  contestService,
		languageService: languageService,
		jwtService:      jwtService,
		ggAuth:          ggAuth,
		localAuth:       localAuth,
		metricsHandler:  metricsHandler,
		healthChecks:    healthChecks,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	GGAuthConfig    *config.GGAuthConfig
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, ggAuthConfig *config.GGAuthConfig, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		GGAuthConfig:    ggAuthConfig,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()

	handlers.NewHealthHandler(s.ServiceProvider.healthChecks, s.logger).RegisterRoutes(r)
	if s.ServiceProvider.metricsHandler != nil {
		r.Handle("/metrics", s.ServiceProvider.metricsHandler).Methods("GET")
	}
	auth.NewHandler(s.GGAuthConfig, s.logger).RegisterRoutes(r, &auth.ServiceDependencies{
		GGAuthService:    s.ServiceProvider.ggAuth,
		LocalAuthService: s.ServiceProvider.localAuth,
	})

	api := r.PathPrefix("/api").Subrouter()
	api.Use(handlers.New(s.ServiceProvider.jwtService, s.logger).JWTMiddleware)
	contests.
		NewContestHandler(s.ServiceProvider.contestService, s.logger).
		RegisterRoutes(api)
	languages.
		NewLanguageHandler(s.ServiceProvider.languageService, s.logger).
		RegisterRoutes(api)

	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background. errCh receives a listen failure.
func (s *Server) Start(errCh chan<- error) {
	// Set up server
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "service", s.ServiceName, "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			errCh <- err
		}
	}()
}

func (s *Server) Stop() {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down http server", "error", err)
	}
}
