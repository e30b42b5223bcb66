package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	db "github.com/katatrina/feed-notification/internal/db/sqlc"
	"github.com/katatrina/feed-notification/internal/event"
	"github.com/katatrina/feed-notification/internal/notification"
	"github.com/katatrina/feed-notification/internal/token"
	"github.com/katatrina/feed-notification/internal/util"
	"github.com/katatrina/feed-notification/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Server struct {
	router              *gin.Engine
	httpServer          *http.Server
	config              *util.Config
	dbStore             db.Store
	tokenMaker          token.Maker
	notificationService *notification.Service
	taskDistributor     worker.TaskDistributor
	taskInspector       worker.TaskInspector
	eventSender         event.EventSender
	gatherer            prometheus.Gatherer
}

// NewServer creates a new HTTP server and set up routing.
// taskDistributor and taskInspector may be nil, in which case the internal event
// routes are not mounted.
func NewServer(
	config *util.Config,
	store db.Store,
	tokenMaker token.Maker,
	notificationService *notification.Service,
	taskDistributor worker.TaskDistributor,
	taskInspector worker.TaskInspector,
	eventSender event.EventSender,
	gatherer prometheus.Gatherer,
) *Server {
	server := &Server{
		config:              config,
		dbStore:             store,
		tokenMaker:          tokenMaker,
		notificationService: notificationService,
		taskDistributor:     taskDistributor,
		taskInspector:       taskInspector,
		eventSender:         eventSender,
		gatherer:            gatherer,
	}

	server.setupRouter()
	server.setupHTTPServer()
	return server
}

// setupHTTPServer wraps the router. Streams watch the request context,
// so it is cancelled as soon as shutdown starts.
func (server *Server) setupHTTPServer() {
	baseCtx, cancel := context.WithCancel(context.Background())

	server.httpServer = &http.Server{
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	server.httpServer.RegisterOnShutdown(cancel)
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", server.healthCheck)
	if server.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{})))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")

	notificationGroup := v1.Group("/notifications", authMiddleware(server.tokenMaker))
	{
		notificationGroup.GET("", server.listNotifications)
		notificationGroup.GET("unread-count", server.getUnreadNotificationCount)
		notificationGroup.GET("stream", server.streamNotifications)
		notificationGroup.PATCH("read-all", server.markAllNotificationsRead)
		notificationGroup.PATCH(":id/read", server.markNotificationRead)
	}

	// Called by other services of the platform, never exposed through the public gateway.
	if server.taskDistributor != nil {
		internalGroup := v1.Group("/internal")
		{
			internalGroup.POST("events", server.createEvent)
			if server.taskInspector != nil {
				internalGroup.GET("events/:taskID", server.getEventTask)
			}
		}
	}

	server.router = router
}

// requestLogger writes one zerolog line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger = log.Error()
		}

		logger.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("received a HTTP request")
	}
}

func (server *Server) healthCheck(c *gin.Context) {
	if err := server.dbStore.Ping(c); err != nil {
		log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Handler returns the router, mostly for tests.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	server.httpServer.Addr = address

	err := server.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for the active ones.
func (server *Server) Shutdown(ctx context.Context) error {
	return server.httpServer.Shutdown(ctx)
}
