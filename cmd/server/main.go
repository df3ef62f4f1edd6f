// Mindmate - AI Wellness Advisor Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/sanjit-mathur/mindmate/internal/api"
	"github.com/sanjit-mathur/mindmate/internal/chat"
	"github.com/sanjit-mathur/mindmate/internal/config"
	"github.com/sanjit-mathur/mindmate/internal/identity"
	"github.com/sanjit-mathur/mindmate/internal/insights"
	"github.com/sanjit-mathur/mindmate/internal/knowledge"
	"github.com/sanjit-mathur/mindmate/internal/llm"
	"github.com/sanjit-mathur/mindmate/internal/middleware"
	"github.com/sanjit-mathur/mindmate/internal/safety"
	"github.com/sanjit-mathur/mindmate/internal/session"
	"github.com/sanjit-mathur/mindmate/internal/stream"
	"github.com/sanjit-mathur/mindmate/internal/transcript"
	"github.com/sanjit-mathur/mindmate/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	if cfg.OpenRouter.APIKey == "" {
		slog.Warn("OPENROUTER_API_KEY not set, sessions must supply their own keys")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Model clients. The dashboard model may run on its own key.
	chatClient := llm.NewClient(llm.Config{
		BaseURL: cfg.OpenRouter.BaseURL,
		APIKey:  cfg.OpenRouter.APIKey,
		Referer: cfg.OpenRouter.Referer,
		Title:   cfg.OpenRouter.Title,
		Timeout: cfg.OpenRouter.RequestTimeout,
	})
	dashboardKey := cfg.OpenRouter.DashboardAPIKey
	if dashboardKey == "" {
		dashboardKey = cfg.OpenRouter.APIKey
	}
	dashboardClient := llm.NewClient(llm.Config{
		BaseURL: cfg.OpenRouter.BaseURL,
		APIKey:  dashboardKey,
		Referer: cfg.OpenRouter.Referer,
		Title:   cfg.OpenRouter.Title,
		Timeout: cfg.OpenRouter.RequestTimeout,
	})

	// Knowledge base. Retrieval is optional: without an embeddings
	// endpoint the advisor runs on the persona alone.
	var embedder llm.Embedder
	if cfg.Embeddings.Model != "" {
		embedder = llm.NewEmbedder(llm.EmbedderConfig{
			BaseURL: cfg.Embeddings.BaseURL,
			APIKey:  cfg.Embeddings.APIKey,
			Model:   cfg.Embeddings.Model,
		})
	} else {
		slog.Info("EMBEDDING_MODEL not set, knowledge retrieval disabled")
	}
	kb, err := knowledge.Load(ctx, cfg.Knowledge.Dir, embedder)
	if err != nil {
		slog.Error("Failed to load knowledge base", "error", err)
		os.Exit(1)
	}
	slog.Info("Knowledge base loaded", "snippets", kb.Len())

	chatLog, err := transcript.New(transcript.Config{
		Enabled:       cfg.ChatLog.Enabled,
		Dir:           cfg.ChatLog.Dir,
		GlobalEnabled: cfg.ChatLog.GlobalEnabled,
		GlobalPath:    cfg.ChatLog.GlobalPath,
		QueueSize:     cfg.ChatLog.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize chat logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := chatLog.Close(); closeErr != nil {
			slog.Error("Failed to close chat logger", "error", closeErr)
		}
	}()

	// Initialize services.
	classifier := safety.NewClassifier(chatClient, cfg.Models.Classify)
	engine := chat.New(chatClient, classifier, kb, chatLog, chat.Config{
		ChatModel:     cfg.Models.Chat,
		ClassifyModel: cfg.Models.Classify,
		TopK:          cfg.Knowledge.TopK,
	})
	generator := insights.New(dashboardClient, cfg.Models.Dashboard)

	store := session.NewStore(cfg.SessionTTL)
	store.StartSweeper(ctx, cfg.SessionTTL/4)
	slog.Info("Session sweeper started", "session_ttl", cfg.SessionTTL)

	registry := stream.NewRegistry()

	// Initialize handlers.
	baseHandler := api.NewHandler(store, engine, chatLog)
	healthHandler := api.NewHealthHandler(store)
	chatHandler := api.NewChatHandler(baseHandler)
	sessionHandler := api.NewSessionHandler(baseHandler)
	dashboardHandler := api.NewDashboardHandler(baseHandler, generator)
	wellnessHandler := api.NewWellnessHandler(baseHandler)
	wsHandler := stream.NewWebSocketHandler(store, engine, registry, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// All routes use identity middleware (no auth needed).
	chatHandler.RegisterRoutes(r)
	sessionHandler.RegisterRoutes(r)
	dashboardHandler.RegisterRoutes(r)
	wellnessHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Note: chat turns against the free hosted models can run for minutes,
	// so the write timeout stays disabled.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")
	registry.CloseAll("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server stopped")
}
