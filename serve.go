package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/blavejr/plantcareAI/config"
	"github.com/blavejr/plantcareAI/controllers"
	"github.com/blavejr/plantcareAI/logging"
	"github.com/blavejr/plantcareAI/services"
	"github.com/blavejr/plantcareAI/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// app holds the components shared by every command.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	source    services.ContentSource
	embedder  *services.Embedder
	generator *services.Generator
	kb        *services.KnowledgeBase
	retriever *services.Retriever
	closers   []func() error
}

func newApp(cfg *config.Config) (*app, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if err := a.openSource(); err != nil {
		_ = logger.Sync()
		return nil, err
	}

	a.embedder = services.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel, cfg.EmbedTimeout)
	a.generator = services.NewGenerator(cfg.OllamaURL, cfg.OllamaLLMModel, cfg.GenerateTimeout)
	a.kb = services.NewKnowledgeBase(a.source, a.embedder, logger, services.WithEmbedRate(cfg.EmbedRate))
	a.retriever = services.NewRetriever(a.kb, a.embedder, cfg.EmbedRetries)
	return a, nil
}

func (a *app) openSource() error {
	switch a.cfg.ContentSource {
	case config.SourceEmbedded:
		a.source = storage.NewEmbeddedSource()
	case config.SourceFile:
		if a.cfg.ContentFile == "" {
			return fmt.Errorf("CONTENT_FILE is required when CONTENT_SOURCE=%s", config.SourceFile)
		}
		a.source = storage.NewFileSource(a.cfg.ContentFile)
	case config.SourceMongo:
		store, err := storage.NewMongoStore(a.cfg, a.logger)
		if err != nil {
			return err
		}
		a.source = store
		a.closers = append(a.closers, store.Close)
	default:
		return fmt.Errorf("unknown CONTENT_SOURCE %q", a.cfg.ContentSource)
	}
	return nil
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// checkOllama only warns: the server starts even when Ollama is down.
func (a *app) checkOllama(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := a.embedder.TestConnection(ctx); err != nil {
		a.logger.Warn("ollama embedding endpoint unreachable", zap.String("url", a.cfg.OllamaURL), zap.Error(err))
	}
	if err := a.generator.TestConnection(ctx); err != nil {
		a.logger.Warn("ollama generation endpoint unreachable", zap.String("url", a.cfg.OllamaURL), zap.Error(err))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(config.Load())
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, logger := a.cfg, a.logger
	a.checkOllama(ctx)

	chat := services.NewChatService(a.retriever, a.generator, cfg.TopK, logger)
	router := controllers.NewRouter(cfg, logger,
		controllers.NewChatController(chat, a.kb, logger),
		controllers.NewCatalogController(services.NewCatalog(a.source), logger),
	)

	listener, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", cfg.Port, err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.EmbedTimeout + cfg.GenerateTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("server starting",
		zap.String("addr", listener.Addr().String()),
		zap.String("environment", cfg.Environment),
		zap.String("ollama_url", cfg.OllamaURL),
		zap.String("llm_model", cfg.OllamaLLMModel),
		zap.String("embed_model", cfg.OllamaEmbedModel),
		zap.String("content_source", cfg.ContentSource),
	)

	// chat is served ungrounded until population finishes
	go func() {
		_ = a.kb.Populate(ctx)
	}()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
