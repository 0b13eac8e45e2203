package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/infrastructure/env"
	"rollcall.io/infrastructure/logger"
	middlewares "rollcall.io/infrastructure/middleware"
	ratelimit "rollcall.io/infrastructure/ratelimit"
	webRoutev1 "rollcall.io/infrastructure/routes/ginRouter/web/v1"
	server_response "rollcall.io/infrastructure/serverResponse"
)

type ginServer struct{}

func NewRouter() *gin.Engine {
	server := gin.New()
	server.Use(gin.Recovery())
	if os.Getenv("GIN_MODE") != gin.TestMode {
		server.Use(gin.Logger())
	}
	origins := []string{}
	if os.Getenv("GIN_MODE") == "debug" {
		origins = append(origins, "http://localhost:5173")
	} else if allowed := os.Getenv("CORS_ORIGIN"); allowed != "" {
		origins = append(origins, allowed)
	}
	corsConfig := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "User-Agent"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) > 0 {
		server.Use(cors.New(corsConfig))
	}
	server.Use(ratelimit.TokenBucketPerIP())
	server.MaxMultipartMemory = 15 << 20

	v1 := server.Group("/api/v1")
	v1.Use(middlewares.UserAgentMiddleware())
	{
		webRoutev1.AttendanceRouter(v1)
		webRoutev1.BiometricRouter(v1)
		webRoutev1.SessionRouter(v1)
		webRoutev1.GeoFenceRouter(v1)
		webRoutev1.ReportRouter(v1)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		server_response.Responder.Respond(ctx, http.StatusOK, "pong!", nil, nil, nil)
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL))
	})
	return server
}

func (s *ginServer) Start() {
	gin_mode := os.Getenv("GIN_MODE")
	if gin_mode != "debug" && gin_mode != "release" {
		panic(fmt.Sprintf("invalid gin mode used - %s", gin_mode))
	}
	gin.SetMode(gin_mode)

	port := env.GetString("PORT", "8080")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: NewRouter(),
	}
	go func() {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shut down", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
}
