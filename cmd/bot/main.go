package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/pagepulse/post-insights/internal/config"
	"github.com/pagepulse/post-insights/internal/insights"
	"github.com/pagepulse/post-insights/internal/linkedin"
	"github.com/pagepulse/post-insights/internal/models"
	"github.com/pagepulse/post-insights/internal/notifications"
	"github.com/pagepulse/post-insights/internal/report"
	"github.com/pagepulse/post-insights/internal/scheduler"
	"github.com/pagepulse/post-insights/internal/storage"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 32 << 20

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Post Insights bot")

	store, err := buildStorage(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	notificationService := notifications.NewService(cfg)
	client := linkedin.NewClient(cfg.LinkedInAccessToken, cfg.LinkedInAPIVersion)
	insightsService := insights.NewService(cfg, store, notificationService, client)

	schedulerService := scheduler.NewService(cfg, insightsService)
	if client.IsEnabled() {
		if err := schedulerService.Start(); err != nil {
			logrus.Fatalf("Failed to start scheduler: %v", err)
		}
		defer schedulerService.Stop()
	} else {
		logrus.Warn("LinkedIn credentials not configured, scheduled runs disabled; /analyze uploads remain available")
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(insightsService)).Methods("GET")
	router.HandleFunc("/trigger", triggerHandler(insightsService)).Methods("POST")
	router.HandleFunc("/analyze", analyzeHandler(insightsService)).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// buildStorage picks blob storage when an account is configured and a
// local directory otherwise, so the bot can run without cloud
// credentials.
func buildStorage(cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageAccount != "" {
		return storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
	}
	logrus.Info("No storage account configured, storing results locally under ./data")
	return storage.NewLocalStorage("data")
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func metricsHandler(insightsService *insights.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(insightsService.GetMetrics()))
	}
}

func triggerHandler(insightsService *insights.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := insightsService.RunAnalysis(); err != nil {
				logrus.Errorf("Manual insights trigger failed: %v", err)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Analysis triggered successfully"}`))
	}
}

// analyzeHandler runs the pipeline over an uploaded export payload.
// Query parameters top_n and lookback_days tune the run; format=text
// switches from JSON to the human-readable report.
func analyzeHandler(insightsService *insights.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		opts := models.AnalysisOptions{
			TopN:         queryInt(r, "top_n", 5),
			LookbackDays: queryInt(r, "lookback_days", 365),
		}

		result := insightsService.AnalyzeExport(body, opts)

		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(report.RenderText(result)))
			return
		}

		data, err := report.RenderJSON(result)
		if err != nil {
			http.Error(w, "failed to serialize result", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
