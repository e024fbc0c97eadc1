package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/config"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/analysis"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/ports"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/usecase"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/catalog/yamlfile"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/importer/xlsx"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/llm/anthropic"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/llm/ollama"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/queue/nats"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/repository/postgres"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/infrastructure/resilience"
)

// Observer collects analysis and resilience events, typically a metrics registry.
type Observer interface {
	ports.AnalysisObserver
	resilience.Observer
}

type App struct {
	Config config.Config
	Engine *analysis.Engine

	Repo     ports.WardrobeRepository
	Queue    ports.MessageQueue
	Executor *resilience.Executor

	// Generator is nil when LLM_PROVIDER=none.
	Generator ports.TextGenerator

	Catalogue ports.WardrobeCatalogue
	Analyzer  ports.ItemAnalyzer
	Extractor ports.AttributeProcessor
	Importer  ports.WardrobeImporter

	db       *sql.DB
	natsConn *nats.Queue
	closeFn  func()
}

func New(ctx context.Context, cfg config.Config, observer Observer) (*App, error) {
	engine, err := NewEngine(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	var executorOpts []resilience.Option
	if observer != nil {
		executorOpts = append(executorOpts, resilience.WithObserver(observer))
	}
	executor := resilience.NewExecutor(resilienceConfig(cfg), executorOpts...)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewWardrobeRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		QueueGroup:         cfg.NATSQueueGroup,
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	generator, advisor, err := newLanguageModel(cfg, executor)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}

	var analysisObserver ports.AnalysisObserver
	if observer != nil {
		analysisObserver = observer
	}

	catalogue := usecase.NewAddItemUseCase(repo, queue)
	app := &App{
		Config:    cfg,
		Engine:    engine,
		Repo:      repo,
		Queue:     queue,
		Executor:  executor,
		Generator: generator,
		Catalogue: catalogue,
		Analyzer:  usecase.NewAnalyzeUseCase(repo, engine, generator, advisor, analysisObserver),
		Importer:  usecase.NewImportWardrobeUseCase(xlsx.NewReader(), catalogue),
		db:        db,
		natsConn:  queue,
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}
	if generator != nil {
		app.Extractor = usecase.NewExtractAttributesUseCase(repo, engine, generator, analysisObserver)
	}

	slog.Info("bootstrap_ready",
		"llm_provider", cfg.LLMProvider,
		"advice_enabled", advisor != nil,
		"catalog", catalogSource(cfg.CatalogPath),
	)
	return app, nil
}

// ReadinessChecks lists the dependency probes behind /readyz.
func (a *App) ReadinessChecks() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"postgres": func(ctx context.Context) error {
			return a.db.PingContext(ctx)
		},
		"nats": func(context.Context) error {
			if !a.natsConn.Connected() {
				return errors.New("not connected")
			}
			return nil
		},
		"circuit_breakers": func(context.Context) error {
			if open := a.Executor.OpenOperations(); len(open) > 0 {
				return fmt.Errorf("open: %s", strings.Join(open, ", "))
			}
			return nil
		},
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewEngine builds the analysis engine from the built-in catalog or a YAML override.
func NewEngine(catalogPath string) (*analysis.Engine, error) {
	catalog := analysis.DefaultCatalog()
	if strings.TrimSpace(catalogPath) != "" {
		loaded, err := yamlfile.Load(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		catalog = loaded
	}
	engine, err := analysis.NewEngine(catalog)
	if err != nil {
		return nil, fmt.Errorf("init analysis engine: %w", err)
	}
	return engine, nil
}

func catalogSource(path string) string {
	if strings.TrimSpace(path) == "" {
		return "built-in"
	}
	return path
}

func resilienceConfig(cfg config.Config) resilience.Config {
	rc := resilience.DefaultConfig()
	if cfg.ResilienceMaxRetries > 0 {
		rc.Retry.MaxAttempts = cfg.ResilienceMaxRetries
	}
	rc.Breaker.Enabled = cfg.BreakerEnabled
	llmRetry := resilience.LLMRetryPolicy(rc.Retry.MaxAttempts)
	rc.RetryOverrides = map[string]resilience.RetryPolicy{
		"ollama.":    llmRetry,
		"anthropic.": llmRetry,
	}
	return rc
}

// newLanguageModel picks the provider. Both return values are nil for "none";
// the advisor is nil when advice is disabled.
func newLanguageModel(cfg config.Config, executor *resilience.Executor) (ports.TextGenerator, ports.AdviceGenerator, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderNone:
		return nil, nil, nil
	case config.LLMProviderOllama, "":
		gen := ollama.NewGenerator(ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, ollama.WithResilience(executor)))
		if !cfg.AdviceEnabled {
			return gen, nil, nil
		}
		return gen, gen, nil
	case config.LLMProviderAnthropic:
		gen, err := anthropic.NewGenerator(anthropic.Config{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			BaseURL: cfg.AnthropicURL,
		}, executor)
		if err != nil {
			return nil, nil, fmt.Errorf("init anthropic: %w", err)
		}
		if !cfg.AdviceEnabled {
			return gen, nil, nil
		}
		return gen, gen, nil
	default:
		return nil, nil, domain.WrapError(domain.ErrInvalidInput, "select llm provider", fmt.Errorf("unknown provider %q", cfg.LLMProvider))
	}
}
