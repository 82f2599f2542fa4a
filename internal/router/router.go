package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskboard/internal/events"
	"taskboard/internal/handler"
	"taskboard/internal/metrics"
	"taskboard/internal/middleware"
	"taskboard/internal/service"
)

// Config carries everything the router needs wired in.
type Config struct {
	Service        service.BoardService
	Hub            *events.Hub
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	BasePath       string
	AllowedOrigins []string
	AuthEnabled    bool
	JWTSecret      string
	Version        string
}

// New builds the gin engine with all routes and middleware registered.
func New(cfg *Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.ClientIdentity())

	healthHandler := handler.NewHealthHandler(cfg.Version)
	boardHandler := handler.NewBoardHandler(cfg.Service)
	cardHandler := handler.NewCardHandler(cfg.Service)

	// Probes and metrics live outside the base path and outside auth.
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.BasePath)
	if cfg.AuthEnabled {
		api.Use(middleware.Auth(cfg.JWTSecret))
	}

	api.GET("/health", healthHandler.Health)

	if cfg.Hub != nil {
		wsHandler := handler.NewWSHandler(cfg.Hub, cfg.Logger)
		api.GET("/ws", wsHandler.Serve)
	}

	// The default board: resolved without an identifier, bootstrapped on
	// first access.
	api.GET("/board", boardHandler.GetDefaultBoard)

	boards := api.Group("/boards")
	{
		boards.GET("", boardHandler.ListBoards)
		boards.POST("", boardHandler.CreateBoard)
		boards.GET("/:boardId", boardHandler.GetBoard)
		boards.PUT("/:boardId", boardHandler.UpdateBoard)
		boards.DELETE("/:boardId", boardHandler.DeleteBoard)
		boards.POST("/:boardId/archive", boardHandler.ArchiveBoard)

		boards.POST("/:boardId/columns", boardHandler.CreateColumn)
		boards.PUT("/:boardId/columns/:columnId", boardHandler.UpdateColumn)
		boards.DELETE("/:boardId/columns/:columnId", boardHandler.DeleteColumn)

		boards.GET("/:boardId/cards", cardHandler.QueryCards)
		boards.POST("/:boardId/cards", cardHandler.CreateCard)
		boards.GET("/:boardId/cards/:cardId", cardHandler.GetCard)
		boards.PUT("/:boardId/cards/:cardId", cardHandler.UpdateCard)
		boards.DELETE("/:boardId/cards/:cardId", cardHandler.DeleteCard)
		boards.POST("/:boardId/cards/:cardId/move", cardHandler.MoveCard)
	}

	archives := api.Group("/archives")
	{
		archives.GET("", boardHandler.ListArchives)
		archives.POST("/:archiveId/restore", boardHandler.RestoreBoard)
	}

	return r
}
