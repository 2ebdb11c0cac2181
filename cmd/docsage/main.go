package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/chunker"
	"github.com/docsage/docsage/internal/config"
	dbRedis "github.com/docsage/docsage/internal/db/redis"
	logpkg "github.com/docsage/docsage/internal/logger"
	"github.com/docsage/docsage/internal/metrics"
	"github.com/docsage/docsage/internal/ocr"
	"github.com/docsage/docsage/internal/repository/embcache"
	indexrepo "github.com/docsage/docsage/internal/repository/index"
	"github.com/docsage/docsage/internal/storage"
	chiTransport "github.com/docsage/docsage/internal/transport/chi"
	openaiTransport "github.com/docsage/docsage/internal/transport/openai"
	fusionuc "github.com/docsage/docsage/internal/usecase/fusion"
	generationuc "github.com/docsage/docsage/internal/usecase/generation"
	healthuc "github.com/docsage/docsage/internal/usecase/health"
	ingestuc "github.com/docsage/docsage/internal/usecase/ingest"
	retrievaluc "github.com/docsage/docsage/internal/usecase/retrieval"
	"github.com/docsage/docsage/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docsage API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterGenerationMetrics()

	// Embedder chain: OpenAI-compatible provider wrapped by the cache
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	embedder := embcache.New(
		baseEmbedder, store, cfg.Embedding.Model,
		time.Duration(cfg.Embedding.CacheTTLHours)*time.Hour,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Completion backend is optional. Pass a nil interface (not a typed nil
	// pointer) when unconfigured so generation degrades to its advisory message.
	var completer generationuc.Completer
	var generationChecker healthuc.ProviderChecker
	if cfg.Generation.BaseURL != "" {
		c := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
			Provider:    cfg.Generation.Provider,
			Logger:      logger,
		})
		completer = c
		generationChecker = c
		logger.Info("Completion backend configured",
			zap.String("provider", cfg.Generation.Provider),
			zap.String("model", cfg.Generation.Model),
		)
	} else {
		logger.Warn("No completion backend configured, generation will return an advisory message")
	}

	// Optional OCR escalation collaborators
	var objectStore chunker.ObjectStore
	var storagePinger healthuc.StoragePinger
	if cfg.Storage.Endpoint != "" {
		sc, err := storage.New(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("Failed to create object storage client", zap.Error(err))
		}
		objectStore = sc
		storagePinger = sc
	}

	var ocrClient chunker.OCR
	if c := ocr.New(ocr.Config{
		BaseURL: cfg.OCR.BaseURL,
		Timeout: time.Duration(cfg.OCR.TimeoutSec) * time.Second,
	}); c != nil {
		ocrClient = c
	}

	// Repositories and use case services
	indexManager := indexrepo.New(store).WithHNSW(indexrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})

	chunkerSvc := chunker.New(chunker.Config{
		ChunkSize:    cfg.Chunking.ChunkSize,
		ChunkOverlap: cfg.Chunking.ChunkOverlap,
	}, objectStore, ocrClient, logger)

	ingestSvc := ingestuc.New(chunkerSvc, embedder, indexManager, logger)
	retrievalSvc := retrievaluc.New(indexManager, embedder, retrievaluc.Options{
		TopK:                cfg.Retrieval.TopK,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		MaxTokens:           cfg.Retrieval.MaxTokens,
		ScanLimit:           cfg.Retrieval.ScanLimit,
		ScrollPageSize:      cfg.Retrieval.ScrollPageSize,
	}, logger)
	fusionSvc := fusionuc.New(retrievalSvc, cfg.Retrieval.MaxTokens, logger)
	generationSvc := generationuc.New(completer, logger)
	healthSvc := healthuc.New(store, baseEmbedder, generationChecker, storagePinger)

	server := chiTransport.NewServer(ingestSvc, retrievalSvc, fusionSvc, generationSvc, healthSvc, logger)
	router := server.Router(cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
