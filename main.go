package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"assistant-connector/internal/config"
	"assistant-connector/internal/domain/dto"
	Iservices "assistant-connector/internal/domain/interfaces/services"
	"assistant-connector/internal/infra/handlers"
	"assistant-connector/internal/infra/logger"
	"assistant-connector/internal/infra/provider"
	"assistant-connector/internal/infra/routes"
	"assistant-connector/internal/infra/services"
	"assistant-connector/internal/middleware"
	client "assistant-connector/internal/pkg"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.NewLogger(ctx, true)

	// Both secrets are required up front; startup fails fast when
	// either is missing.
	telegramToken := config.GetEnv("TELEGRAM_BOT_TOKEN")
	openAIKey := config.GetEnv("OPENAI_API_KEY")
	openAIHost := config.GetEnvOr("OPENAI_API_HOST", "https://api.openai.com")

	completionClient := &http.Client{Timeout: 120 * time.Second}
	speechClient := &http.Client{Timeout: 60 * time.Second}

	telegramProvider, err := provider.NewTelegramProvider(log, telegramToken, speechClient)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to start Telegram provider: %v", err))
	}

	var sessionSvc Iservices.ISessionService = services.NewSessionService(log)
	var completionSvc Iservices.ICompletionService = services.NewCompletionService(log, completionClient, openAIHost, openAIKey)
	var speechSvc Iservices.ISpeechService = services.NewSpeechService(log, speechClient, client.NewTranscoder(), openAIHost, openAIKey)

	channelSvc := services.NewChannelService(log, sessionSvc, completionSvc, speechSvc, telegramProvider)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	opsHandlers := handlers.NewOpsHandlers(log, sessionSvc)
	httpRoutes := routes.NewRoutes(router, opsHandlers)
	httpRoutes.Init()

	port := config.GetEnvOr("PORT", "8080")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Ops server is running on port %s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	go func() {
		log.Info("Bot is polling for updates")
		err := telegramProvider.Run(ctx, func(message dto.InboundMessage) {
			channelSvc.HandleInbound(ctx, message)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error(fmt.Sprintf("Update polling stopped: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
