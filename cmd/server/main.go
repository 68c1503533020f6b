package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/drooschuck/funwithflag/internal/auth"
	"github.com/drooschuck/funwithflag/internal/catalog"
	"github.com/drooschuck/funwithflag/internal/config"
	"github.com/drooschuck/funwithflag/internal/funfacts"
	"github.com/drooschuck/funwithflag/internal/handlers"
	"github.com/drooschuck/funwithflag/internal/logger"
	"github.com/drooschuck/funwithflag/internal/middleware"
	"github.com/drooschuck/funwithflag/internal/quiz"
	"github.com/drooschuck/funwithflag/internal/ws"

	_ "github.com/drooschuck/funwithflag/docs"
)

// @title           Fun With Flags API
// @version         1.0
// @description     Flag-identification quiz with generated fun facts after correct answers
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	repo, err := catalog.Load(cfg.Questions.Path)
	if err != nil {
		zlog.Fatal("failed to load question catalog", zap.Error(err))
	}
	zlog.Info("question catalog loaded",
		zap.Int("questions", repo.Count()),
		zap.String("path", cfg.Questions.Path),
	)

	factsClient := funfacts.NewClient(cfg.FunFacts)
	if !factsClient.Enabled() {
		zlog.Warn("fun facts provider not configured, players will only see the fallback message")
	}

	hub := ws.NewHub()

	controller := quiz.NewController(
		repo.Questions(),
		quiz.NewTimerScheduler(),
		factsClient,
		zlog,
		cfg.Quiz.AdvanceDelayCorrect,
		cfg.Quiz.AdvanceDelayIncorrect,
	)
	controller.SetListener(func(snap quiz.Snapshot) {
		hub.Broadcast(snap.SessionID, ws.Message{Type: "state", Data: snap})
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	janitor := quiz.NewJanitor(controller, cfg.Quiz.SessionTTL, zlog)
	go janitor.Start(ctx)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var authenticator auth.Authenticator
	var registrar *auth.CredentialsAuthenticator
	if cfg.Auth.Mode == config.AuthModeCredentials {
		registrar = auth.NewCredentialsAuthenticator()
		authenticator = registrar
	} else {
		authenticator = auth.NewMockAuthenticator(cfg.Auth.MockDelay)
	}
	zlog.Info("authentication gate ready", zap.String("mode", cfg.Auth.Mode))

	authHandler := handlers.NewAuthHandler(authenticator, registrar, tokens)
	sessionHandler := handlers.NewSessionHandler(controller)
	wsHandler := handlers.NewWSHandler(controller, hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			if registrar != nil {
				authRoutes.POST("/register", authHandler.Register)
			}
		}

		sessions := api.Group("/sessions")
		sessions.Use(middleware.JWTAuth(tokens))
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/answer", sessionHandler.SubmitAnswer)
			sessions.POST("/:id/restart", sessionHandler.RestartSession)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
			sessions.GET("/:id/ws", wsHandler.HandleWebSocket)
		}
	}

	zlog.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
