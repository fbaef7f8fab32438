package api

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pmarkov/newsmind/internal/model"
	"github.com/pmarkov/newsmind/internal/store"
)

// Server wires the handlers into a gin router.
type Server struct {
	router *gin.Engine
	port   int
}

// NewServer builds the router with CORS and all read-only routes.
func NewServer(cfg *model.Config, st store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	handler := NewHandler(st, cfg.Topics, cfg.Trends)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.API.AllowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	RegisterRoutes(router, handler)

	logger.Info("api configured", "port", cfg.API.Port, "origins", cfg.API.AllowedOrigins)
	return &Server{router: router, port: cfg.API.Port}
}

// RegisterRoutes attaches every endpoint to the router.
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/clusters", handler.GetClusters)
	router.GET("/clusters/:id", handler.GetCluster)
	router.GET("/clusters/:id/articles", handler.GetClusterArticles)
	router.GET("/articles/:id/cluster", handler.GetArticleCluster)
	router.GET("/trends", handler.GetTrends)
	router.GET("/health", handler.GetHealth)
}

// Run blocks serving HTTP until the listener fails.
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%d", s.port))
}
