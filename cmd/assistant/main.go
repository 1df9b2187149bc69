package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/expense-assistant/internal/api/handlers"
	"github.com/dvloznov/expense-assistant/internal/api/middleware"
	"github.com/dvloznov/expense-assistant/internal/assistant"
	"github.com/dvloznov/expense-assistant/internal/config"
	"github.com/dvloznov/expense-assistant/internal/gcs"
	"github.com/dvloznov/expense-assistant/internal/gemini"
	"github.com/dvloznov/expense-assistant/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// Parse command-line flags (override env)
	var (
		port   = flag.String("port", cfg.Port, "HTTP server port")
		bucket = flag.String("bucket", cfg.Bucket, "GCS bucket holding the expenses CSV (or set EXPENSES_BUCKET)")
		object = flag.String("object", cfg.Object, "CSV object name in the bucket (or set EXPENSES_OBJECT)")
	)
	flag.Parse()
	cfg.Port = *port
	cfg.Bucket = *bucket
	cfg.Object = *object

	// Initialize logger
	log := logger.New()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.Bucket == "" {
		log.Warn().Msg("No expenses bucket configured - queries will fail until EXPENSES_BUCKET is set")
	}

	// Wire the pipeline
	fetcher := gcs.NewCSVFetcher(cfg.Bucket, cfg.Object)
	completer := gemini.NewClient(cfg.Model)
	prompts := assistant.PromptBuilder{
		ByteBudget:             cfg.PromptByteBudget,
		MaxReducedTransactions: cfg.MaxReducedTransactions,
	}
	orchestrator := assistant.NewOrchestrator(fetcher, completer, prompts, log)

	// Initialize handlers
	askHandler := handlers.NewAskHandler(orchestrator)
	expensesHandler := handlers.NewExpensesHandler(fetcher)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ask", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			askHandler.Ask(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			expensesHandler.Expenses(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses/daily", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			expensesHandler.Daily(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(log)(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // completion calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting assistant API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
