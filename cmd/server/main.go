// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/cswiz2003/voice-ai-assistant/internal/config"
	"github.com/cswiz2003/voice-ai-assistant/internal/domain"
	"github.com/cswiz2003/voice-ai-assistant/internal/handlers"
	"github.com/cswiz2003/voice-ai-assistant/internal/middleware"
	chatrepo "github.com/cswiz2003/voice-ai-assistant/internal/repository/chat"
	messagerepo "github.com/cswiz2003/voice-ai-assistant/internal/repository/message"
	userrepo "github.com/cswiz2003/voice-ai-assistant/internal/repository/user"
	"github.com/cswiz2003/voice-ai-assistant/internal/services"
	"github.com/cswiz2003/voice-ai-assistant/internal/services/chat"
	"github.com/cswiz2003/voice-ai-assistant/internal/services/response"
	"github.com/cswiz2003/voice-ai-assistant/internal/services/speech"
	"github.com/cswiz2003/voice-ai-assistant/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("server")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	chatRepo := chatrepo.NewChatRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)
	chatService := chat.NewService(chatRepo, messageRepo, logger)

	responseConfig := response.DefaultConfig()
	responseConfig.APIKey = cfg.LLMAPIKey
	responseConfig.BaseURL = cfg.LLMBaseURL
	responseConfig.Model = cfg.LLMModel
	responseService, err := response.NewService(responseConfig, response.NewOpenAIProvider(responseConfig), logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Response Service: %v", err)
	}

	speechConfig := speech.DefaultConfig()
	speechConfig.APIKey = cfg.TTSAPIKey
	speechConfig.BaseURL = cfg.TTSBaseURL
	speechConfig.Voice = cfg.TTSVoice
	speaker := speech.NewSpeaker(speech.NewElevenLabsProvider(speechConfig), logger)

	pipeline := handlers.NewTurnPipeline(chatService, responseService, logger)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	chatHandler := handlers.NewChatHandler(chatService, pipeline)
	voiceHandler := handlers.NewVoiceHandler(pipeline, cfg.SilenceTimeout, logger)
	ttsHandler := handlers.NewTTSHandler(speaker, logger)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.NewLoggingMiddleware(logger))

	// --- Public Routes ---
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/chats", chatHandler.GetUserChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.RenameChat).Methods("PUT")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.DeleteChat).Methods("DELETE")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.GetChatMessages).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.HandleChatMessage).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}/voice", voiceHandler.ServeVoice).Methods("GET")
	api.HandleFunc("/tts", ttsHandler.Synthesize).Methods("POST")

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	logger.Info("server starting", "port", port, "environment", cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
