package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/world-graph/internal/auth"
	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/middleware"
)

// RestServer HTTP интерфейс к графу мира
type RestServer struct {
	service *WorldService
	users   auth.UserRepository
	tokens  *auth.TokenManager
	engine  *gin.Engine
	server  *http.Server
	logger  *logging.Logger
}

// NewRestServer собирает маршруты и middleware REST API
func NewRestServer(service *WorldService, users auth.UserRepository, tokens *auth.TokenManager) *RestServer {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("world-graph"))
	engine.Use(middleware.RequestLogging())
	engine.Use(middleware.PrometheusMetrics())
	engine.Use(corsMiddleware())

	rs := &RestServer{
		service: service,
		users:   users,
		tokens:  tokens,
		engine:  engine,
		logger:  logging.GetComponentLogger("api"),
	}
	rs.registerRoutes()
	return rs
}

func (rs *RestServer) registerRoutes() {
	rs.engine.GET("/health", rs.handleHealth)
	rs.engine.POST("/api/auth/login", rs.handleLogin)

	authorized := rs.engine.Group("/api", rs.jwtMiddleware())
	{
		authorized.GET("/world", rs.handleWorldSummary)
		authorized.GET("/world/chunks", rs.handleListChunks)
		authorized.GET("/world/chunks/:id", rs.handleGetChunk)
		authorized.GET("/world/chunks/:id/passages", rs.handleChunkPassages)
		authorized.GET("/world/path", rs.handlePath)

		authorized.GET("/juice/loaded", rs.handleLoadedChunks)
		authorized.GET("/juice/chunks/:id", rs.handleChunkJuice)
		authorized.PUT("/juice/players/:id", rs.handleMovePlayer)
		authorized.DELETE("/juice/players/:id", rs.handleRemovePlayer)

		editors := authorized.Group("", rs.editorMiddleware())
		{
			editors.PUT("/world/chunks/:id/metadata", rs.handleSetChunkMetadata)
			editors.DELETE("/world/chunks/:id", rs.handleRemoveChunk)
			editors.POST("/world/passages", rs.handleCreatePassage)
			editors.DELETE("/world/passages/:from/:to", rs.handleRemovePassage)
		}

		admins := authorized.Group("/admin", rs.adminMiddleware())
		{
			admins.POST("/regenerate", rs.handleRegenerate)
			admins.POST("/save", rs.handleSave)
			admins.GET("/users", rs.handleListUsers)
			admins.POST("/users", rs.handleCreateUser)
			admins.DELETE("/users/:id", rs.handleDeleteUser)
		}
	}
}

// Start запускает HTTP сервер (не блокирует)
func (rs *RestServer) Start(port int) error {
	rs.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      rs.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		rs.logger.Info("✅ REST API listening on :%d", port)
		if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rs.logger.Error("❌ REST server: %v", err)
		}
	}()
	return nil
}

// Stop корректно останавливает HTTP сервер
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return rs.server.Shutdown(shutdownCtx)
}

// Engine возвращает gin engine (для httptest)
func (rs *RestServer) Engine() *gin.Engine {
	return rs.engine
}

func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"chunks": rs.service.Graph().ChunkCount(),
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
