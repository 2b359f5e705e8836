package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/medscan-relay/internal/application"
	appchat "github.com/bryanwahyu/medscan-relay/internal/application/chat"
	appscans "github.com/bryanwahyu/medscan-relay/internal/application/scans"
	"github.com/bryanwahyu/medscan-relay/internal/config"
	domai "github.com/bryanwahyu/medscan-relay/internal/domain/ai"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/gemini"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/ollama"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/openai"
	"github.com/bryanwahyu/medscan-relay/internal/infra/ai/upstream"
	"github.com/bryanwahyu/medscan-relay/internal/infra/httpserver"
	"github.com/bryanwahyu/medscan-relay/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	vision, err := newVisionClient(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("vision client init error")
	}

	chatClient := openai.NewClient(
		upstream.New("groq", upstream.WithTimeout(cfg.Upstream.Timeout), upstream.WithLogger(logger)),
		cfg.Chat.APIKey,
		cfg.Chat.Model,
		cfg.Chat.BaseURL,
	)
	chatClient.Temperature = cfg.Chat.Temperature
	chatClient.MaxTokens = cfg.Chat.MaxTokens

	store := storage.NewMemoryStore()

	scansSvc := &appscans.Service{
		Vision: vision,
		Store:  store,
		Clock:  application.SystemClock{},
		Logger: logger.With().Str("component", "scans").Logger(),
	}
	chatSvc := &appchat.Service{
		Chat:   chatClient,
		Store:  store,
		Logger: logger.With().Str("component", "chat").Logger(),
	}

	handler := httpserver.NewRouter(scansSvc, chatSvc, httpserver.Options{
		Logger:             logger.With().Str("component", "http").Logger(),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MaxUploadBytes:     cfg.Scan.MaxUploadBytes,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().
			Str("addr", addr).
			Str("vision_backend", cfg.Vision.Backend).
			Str("chat_model", cfg.Chat.Model).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

func newVisionClient(cfg *config.Config, logger zerolog.Logger) (domai.VisionClient, error) {
	switch cfg.Vision.Backend {
	case config.BackendOllama:
		return ollama.NewClient(cfg.Ollama.URL, cfg.Ollama.Model, &http.Client{Timeout: cfg.Upstream.Timeout})
	default:
		return gemini.NewClient(
			upstream.New("gemini", upstream.WithTimeout(cfg.Upstream.Timeout), upstream.WithLogger(logger)),
			cfg.Gemini.APIKey,
			cfg.Gemini.Model,
			cfg.Gemini.BaseURL,
		), nil
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var l zerolog.Logger
	if cfg.Log.Pretty {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		l = zerolog.New(os.Stderr)
	}
	return l.Level(level).With().Timestamp().Str("service", "medscan-relay").Logger()
}
