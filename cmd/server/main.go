package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/vovavang1094/kinokviz-bot/internal/config"
	"github.com/vovavang1094/kinokviz-bot/internal/database"
	"github.com/vovavang1094/kinokviz-bot/internal/game"
	"github.com/vovavang1094/kinokviz-bot/internal/handlers"
	"github.com/vovavang1094/kinokviz-bot/internal/middleware"
	"github.com/vovavang1094/kinokviz-bot/internal/models"
	"github.com/vovavang1094/kinokviz-bot/internal/services"
	"github.com/vovavang1094/kinokviz-bot/internal/telegram"
	"github.com/vovavang1094/kinokviz-bot/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	questions := models.DefaultQuestions()
	if cfg.QuestionsFile != "" {
		loaded, err := models.LoadQuestions(cfg.QuestionsFile)
		if err != nil {
			log.Fatalf("failed to load question bank: %v", err)
		}
		questions = loaded
	}
	log.Printf("question bank loaded: %d questions", len(questions))

	registry := game.New(game.Config{
		MaxPlayers:    cfg.MaxPlayers,
		MinPlayers:    cfg.MinPlayers,
		AnswerTimeout: cfg.AnswerTimeout,
		GameTTL:       cfg.GameTTL,
	}, questions)

	var history *services.HistoryService
	if cfg.HistoryEnabled() {
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		history = services.NewHistoryService(db)
	} else {
		log.Println("DB_HOST not set, game history disabled")
	}

	hub := ws.NewHub()

	gameHandler := handlers.NewGameHandler(registry, hub, history)
	wsHandler := handlers.NewWSHandler(registry, hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
	}))

	r.GET("/ws/games/:code", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		games := api.Group("/games")
		{
			games.POST("", gameHandler.CreateGame)
			games.POST("/join", gameHandler.JoinGame)
			games.POST("/leave", gameHandler.LeaveGame)
			games.GET("/:code", gameHandler.GetGame)
			games.POST("/:code/start", gameHandler.StartGame)
			games.GET("/:code/question", gameHandler.GetCurrentQuestion)
			games.POST("/:code/answers", gameHandler.SubmitAnswer)
			games.GET("/:code/wait", gameHandler.WaitForPlayers)
			games.POST("/:code/next", gameHandler.NextQuestion)
			games.GET("/:code/results", gameHandler.GetResults)
			games.DELETE("/:code", gameHandler.EndGame)
		}

		api.GET("/players/:id/history", gameHandler.GetPlayerHistory)

		admin := api.Group("/admin")
		admin.Use(middleware.APIKeyAuth(cfg.BotAPIKey))
		{
			admin.POST("/cleanup", gameHandler.Cleanup)
		}
	}

	var bot *telegram.Bot
	if cfg.TelegramToken != "" {
		var err error
		bot, err = telegram.NewBot(cfg.TelegramToken, registry, history)
		if err != nil {
			log.Fatalf("failed to create telegram bot: %v", err)
		}
		go bot.Start()
	} else {
		log.Println("TELEGRAM_TOKEN not set, bot disabled")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Printf("server starting on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down")
	if bot != nil {
		bot.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// Drain the registry last so in-flight waiters are released first.
	registry.Close()
}
