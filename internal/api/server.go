package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobmarket/internal/api/handlers"
	"github.com/maxaizer/jobmarket/internal/api/middlewares"
	"github.com/maxaizer/jobmarket/internal/auth"
	"github.com/maxaizer/jobmarket/internal/config"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/metrics"
	"github.com/maxaizer/jobmarket/internal/services"
	log "github.com/sirupsen/logrus"
)

type Dependencies struct {
	Sessions  *services.Sessions
	Listings  *services.Listings
	Messaging *services.Messaging
	Tokens    *auth.TokenIssuer
}

func NewRouter(cfg config.ServerConfig, deps Dependencies) *gin.Engine {
	gin.SetMode(cfg.Mode)

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(), cors.New(corsConfig(cfg.CorsOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": deps.Sessions.Count()})
	})
	r.GET("/metrics", metrics.Handler())

	authenticated := middlewares.JWTAuth(deps.Tokens, deps.Sessions)

	ah := handlers.NewAuthHandler(deps.Sessions, deps.Tokens)
	sh := handlers.NewSessionHandler(deps.Sessions)
	uh := handlers.NewUserHandler()
	lh := handlers.NewListingsHandler(deps.Listings)
	ch := handlers.NewConversationHandler(deps.Messaging)

	v1 := r.Group("/v1")
	{
		v1.POST("/sessions", sh.Create)
		v1.GET("/sessions/:id", sh.Get)
		v1.PUT("/sessions/:id/language", sh.SetLanguage)

		v1.POST("/auth/login", ah.Login)
		v1.POST("/auth/register", ah.Register)
		v1.POST("/auth/logout", authenticated, ah.Logout)

		me := v1.Group("/users/me")
		me.Use(authenticated)
		me.GET("", uh.GetMe)
		me.PATCH("", uh.UpdateMe)
		me.PUT("/language", uh.SetLanguage)

		v1.GET("/jobs", lh.ListJobs)
		v1.GET("/jobs/:id", lh.GetJob)
		v1.POST("/jobs", authenticated, middlewares.RequireRole(models.RoleEmployer), lh.PostJob)
		v1.GET("/workers", lh.ListWorkers)
		v1.GET("/workers/:id", lh.GetWorker)
		v1.GET("/employers", lh.ListEmployers)
		v1.GET("/employers/:id", lh.GetEmployer)
		v1.GET("/employers/:id/jobs", lh.ListEmployerJobs)

		conversations := v1.Group("/conversations")
		conversations.Use(authenticated)
		conversations.GET("", ch.List)
		conversations.POST("", ch.Start)
		conversations.GET("/:id/messages", ch.Messages)
		conversations.POST("/:id/messages", ch.Send)
		conversations.POST("/:id/read", ch.MarkRead)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", handlers.SessionHeader}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
	return cfg
}

type Server struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		server: &http.Server{
			Addr:              cfg.Address(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run blocks until the server is stopped.
func (s *Server) Run() {
	log.Infof("http server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server failed: %v", err)
	}
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Errorf("http server shutdown: %v", err)
	}
}
