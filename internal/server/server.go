package server

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/emilythestrangee/devflow/backend/internal/actions"
	"github.com/emilythestrangee/devflow/backend/internal/auth"
	"github.com/emilythestrangee/devflow/backend/internal/config"
	"github.com/emilythestrangee/devflow/backend/internal/database"
	"github.com/emilythestrangee/devflow/backend/internal/handlers"
	"github.com/emilythestrangee/devflow/backend/internal/logger"
	"github.com/emilythestrangee/devflow/backend/internal/metrics"
	"github.com/emilythestrangee/devflow/backend/internal/middleware"
)

const serviceName = "devflow"

// Deps are what the HTTP layer is built from.
type Deps struct {
	DB       database.Service
	Actions  *actions.Actions
	Tokens   *auth.TokenManager
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   logger.Logger
}

type Server struct {
	cfg     config.HTTPConfig
	deps    Deps
	handler *handlers.Handler
}

func New(cfg config.HTTPConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoopLogger()
	}
	return &Server{
		cfg:     cfg,
		deps:    deps,
		handler: handlers.NewHandler(deps.Actions),
	}
}

// NewServer creates and configures a new server
func NewServer(cfg config.HTTPConfig, deps Deps) *http.Server {
	s := New(cfg, deps)

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(s.deps.Logger))
	if s.deps.Metrics != nil {
		r.Use(middleware.Metrics(s.deps.Metrics))
	}

	// CORS configuration
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", s.health)

	if s.deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))
	}

	h := s.handler

	// API routes. Sessions are resolved for every request; each action
	// decides whether it needs one.
	api := r.Group("/api")
	api.Use(middleware.Session(s.deps.Tokens))
	{
		// Auth routes
		api.POST("/auth/sign-up", h.Auth.SignUp)
		api.POST("/auth/sign-in", h.Auth.SignIn)
		api.POST("/auth/signin-with-oauth", h.Auth.SignInWithOAuth)
		api.GET("/me", middleware.RequireSession(), h.Auth.Me)

		// Account and user routes
		api.GET("/accounts", h.User.ListAccounts)
		api.POST("/accounts", h.User.CreateAccount)
		api.POST("/accounts/provider", h.User.GetAccountByProvider)
		api.POST("/users/email", h.User.GetUserByEmail)
		api.GET("/users/:id", h.User.GetUser)

		// Question routes
		api.GET("/questions", h.Question.ListQuestions)
		api.POST("/questions", h.Question.CreateQuestion)
		api.GET("/questions/:id", h.Question.GetQuestion)
		api.PUT("/questions/:id", h.Question.EditQuestion)
		api.POST("/questions/:id/views", h.Question.IncrementViews)

		// Answer routes
		api.GET("/questions/:id/answers", h.Answer.ListAnswers)
		api.POST("/questions/:id/answers", h.Answer.CreateAnswer)

		// Tag routes
		api.GET("/tags", h.Tag.ListTags)
		api.GET("/tags/:id/questions", h.Tag.TagQuestions)

		// Vote and collection routes
		api.POST("/votes", h.Vote.CreateVote)
		api.GET("/votes/status", h.Vote.Status)
		api.POST("/collections/toggle", h.Collection.Toggle)
		api.GET("/collections", h.Collection.List)

		// AI routes
		api.POST("/ai/answers", h.AI.GenerateAnswer)
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	if s.deps.DB == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	stats := s.deps.DB.Health(c.Request.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}
