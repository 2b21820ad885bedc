package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/breverdbidder/property360-sale-advisor/internal/config"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/ports"
	"github.com/breverdbidder/property360-sale-advisor/internal/core/usecase"
	"github.com/breverdbidder/property360-sale-advisor/internal/infrastructure/catalog"
	"github.com/breverdbidder/property360-sale-advisor/internal/infrastructure/extractor/office"
	"github.com/breverdbidder/property360-sale-advisor/internal/infrastructure/llm/gemini"
	"github.com/breverdbidder/property360-sale-advisor/internal/infrastructure/queue/nats"
	"github.com/breverdbidder/property360-sale-advisor/internal/infrastructure/repository/postgres"
	"github.com/breverdbidder/property360-sale-advisor/internal/infrastructure/resilience"
	"github.com/breverdbidder/property360-sale-advisor/internal/infrastructure/storage/localfs"
	"github.com/breverdbidder/property360-sale-advisor/internal/observability/logging"
)

// App wires the shared dependency graph for the api and worker binaries.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue    ports.MessageQueue
	Docs     ports.DocumentStore
	Catalog  ports.CatalogProvider
	Sessions *usecase.SessionManager

	UploadUC  *usecase.UploadDocumentUseCase
	AnalyzeUC ports.DocumentAnalysisService
	ProcessUC ports.DocumentProcessor

	closeFn func()
}

func New(ctx context.Context, service string, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	if err := docRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure documents schema: %w", err)
	}
	checklistRepo := postgres.NewChecklistRepository(db)
	if err := checklistRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure checklist schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	catalogProvider, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	geminiClient := gemini.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	analyzer := gemini.NewAnalyzer(geminiClient, catalogProvider, cfg.MinSuggestionConfidence, cfg.MaxAdvisoryEntries, logger)
	extractor := office.NewExtractor(cfg.MaxContentChars, cfg.MaxBinaryBytes, logger)

	uploadUC := usecase.NewUploadDocumentUseCase(docRepo, storage, queue)
	analyzeUC := usecase.NewAnalyzeDocumentUseCase(analyzer)
	processUC := usecase.NewProcessDocumentUseCase(docRepo, storage, extractor, analyzer, logger)
	sessions := usecase.NewSessionManager(
		catalogProvider.Catalog(),
		checklistRepo,
		docRepo,
		storage,
		usecase.SessionConfig{
			ToggleFlushDelay: cfg.ToggleFlushDelay,
			BulkFlushDelay:   cfg.BulkFlushDelay,
		},
		logger,
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Queue:    queue,
		Docs:     docRepo,
		Catalog:  catalogProvider,
		Sessions: sessions,

		UploadUC:  uploadUC,
		AnalyzeUC: analyzeUC,
		ProcessUC: processUC,

		closeFn: func() {
			sessions.CloseAll(context.Background())
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func loadCatalog(path string) (ports.CatalogProvider, error) {
	if path == "" {
		return catalog.NewProvider(), nil
	}
	provider, err := catalog.NewProviderFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", path, err)
	}
	return provider, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
