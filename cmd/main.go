// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"
	"github.com/spf13/afero"

	"go_easyjp_vocab/internal/config"
	"go_easyjp_vocab/internal/handlers"
	"go_easyjp_vocab/internal/middleware"
	"go_easyjp_vocab/internal/repository"
	"go_easyjp_vocab/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
	)

	// 2. ストアの初期化（JSONファイル永続化）
	fs := afero.NewOsFs()
	storagePath := filepath.Join(config.Cfg.Storage.Dir, config.Cfg.Storage.File)
	store := repository.NewFileWordSourceStore(fs, storagePath, logger)

	// ロード失敗は致命傷にしない（空の状態で起動し、エラーはUI層へ見せる）
	errState := service.NewErrorState()
	if err := store.Load(); err != nil {
		slog.Warn("Failed to load persisted word sources, starting empty", slog.Any("error", err))
		errState.Set(err)
	}
	if err := store.EnsureDefaultSource(); err != nil {
		slog.Warn("Failed to persist default word source", slog.Any("error", err))
		errState.Set(err)
	}

	// 3. Dependency Injection
	vocabService := service.NewVocabService(store, errState, logger)
	importerService := service.NewImporterService(fs, store, config.Cfg.ImportTimeout(), errState, logger)
	exporterService := service.NewExporterService(store, errState, logger)
	quizService := service.NewQuizService(store, logger)

	sourceHandler := handlers.NewSourceHandler(vocabService, exporterService, logger)
	importHandler := handlers.NewImportHandler(importerService, errState, logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger)

	// 変更通知の購読（変更のたびに1行ログ）
	go func() {
		for range store.Watch() {
			slog.Debug("Word sources changed", slog.Int("count", len(store.List())))
		}
	}()

	// 4. Setup Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: config.Cfg.CORS.AllowedOrigins,
		AllowedMethods: config.Cfg.CORS.AllowedMethods,
		AllowedHeaders: config.Cfg.CORS.AllowedHeaders,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sources", func(r chi.Router) {
			r.Get("/", sourceHandler.GetSources)
			r.Post("/", sourceHandler.PostSource)
			r.Delete("/{source_id}", sourceHandler.DeleteSource)
			r.Get("/{source_id}/export", sourceHandler.ExportSource)
		})

		r.Route("/imports", func(r chi.Router) {
			r.Post("/file", importHandler.PostImportFile)
			r.Post("/url", importHandler.PostImportURL)
		})

		r.Get("/words", sourceHandler.GetWords)
		r.Get("/levels", sourceHandler.GetLevels)

		r.Get("/error", importHandler.GetCurrentError)
		r.Delete("/error", importHandler.DeleteCurrentError)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", quizHandler.PostSession)
			r.Get("/{session_id}", quizHandler.GetSession)
			r.Post("/{session_id}/answer", quizHandler.PostAnswer)
			r.Post("/{session_id}/advance", quizHandler.PostAdvance)
			r.Post("/{session_id}/restart", quizHandler.PostRestart)
			r.Delete("/{session_id}", quizHandler.DeleteSession)
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 5. Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
