package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Mahesh1735/research-agent-core/config"
	"github.com/Mahesh1735/research-agent-core/internal/agent"
	"github.com/Mahesh1735/research-agent-core/internal/candidates"
	"github.com/Mahesh1735/research-agent-core/internal/logging"
	"github.com/Mahesh1735/research-agent-core/internal/telemetry"
	"github.com/Mahesh1735/research-agent-core/provider"
	"github.com/Mahesh1735/research-agent-core/session"
	redis_session "github.com/Mahesh1735/research-agent-core/session/redis"
	"github.com/Mahesh1735/research-agent-core/tools/page_rank"
	"github.com/Mahesh1735/research-agent-core/tools/web_fetch"
	"github.com/Mahesh1735/research-agent-core/tools/web_search"
	"github.com/Mahesh1735/research-agent-core/utils"
)

// app is the fully wired agent stack.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	store    session.Store
	orch     *agent.Orchestrator
}

func loadConfig(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.General.LogLevel, cfg.General.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(registry)

	llm, err := provider.NewProvider(provider.Client(cfg.LLM.Provider), provider.Options{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
		Logger:      logger.Named("llm"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	searchProvider := web_search.Provider(cfg.Search.Provider)
	productSearch, err := web_search.NewWebSearcher(searchProvider, web_search.Options{
		APIKey:            cfg.Search.APIKey(),
		Timeout:           cfg.Search.Timeout,
		IncludeRawContent: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product search: %w", err)
	}
	expertSearch, err := web_search.NewWebSearcher(searchProvider, web_search.Options{
		APIKey:  cfg.Search.APIKey(),
		Timeout: cfg.Search.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create expert search: %w", err)
	}

	ranker, err := page_rank.NewRanker(page_rank.OpenPageRankProvider, page_rank.Options{
		APIKey:   cfg.PageRank.APIKey,
		Endpoint: cfg.PageRank.Endpoint,
		Timeout:  cfg.PageRank.Timeout,
	})
	if err != nil {
		return nil, err
	}
	retry := cfg.PageRank.Retry
	ranker = page_rank.WithRetry(ranker, utils.RetryPolicy[[]float64]{
		Enabled:  retry.Enabled,
		MaxTries: retry.MaxTries,
		Delay:    retry.Delay,
		Backoff:  retry.Backoff,
		Default:  []float64{},
	}, logging.RetryObserver(logger.Named("retry")), metrics.RetryObserver())

	pipelineOpts := []candidates.Option{
		candidates.WithMaxResults(cfg.Search.ProductResults),
		candidates.WithLogger(logger.Named("candidates")),
		candidates.WithMetrics(metrics),
	}
	if cfg.Fetch.Enabled {
		fetcher, err := web_fetch.NewWebFetcher(web_fetch.FetcherType(cfg.Fetch.Type), web_fetch.Options{
			Timeout:    cfg.Fetch.Timeout,
			MaxChars:   cfg.Fetch.MaxChars,
			ScraperURL: cfg.Fetch.ScraperURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create fetcher: %w", err)
		}
		pipelineOpts = append(pipelineOpts, candidates.WithEnricher(candidates.FetchEnricher{Fetcher: fetcher, Logger: logger.Named("enrich")}))
	}
	pipeline := candidates.NewPipeline(productSearch, ranker, pipelineOpts...)

	store, err := session.NewStore(ctx, session.StoreType(cfg.Session.Store), session.Options{
		TTL: cfg.Session.TTL,
		Redis: redis_session.Options{
			Host:     cfg.Storage.Redis.Host,
			Port:     cfg.Storage.Redis.Port,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			Timeout:  cfg.Storage.Redis.Timeout,
		},
		PostgresDSN: cfg.Storage.Postgres.DSN(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	orch := agent.NewOrchestrator(llm,
		agent.Expert{Search: expertSearch, MaxResults: cfg.Search.ExpertResults},
		pipeline,
		store,
		agent.WithLogger(logger.Named("orchestrator")),
		agent.WithMetrics(metrics),
		agent.WithMaxSteps(cfg.Agent.MaxSteps),
		agent.WithCandidateContextChars(cfg.Agent.CandidateContextChars),
	)

	return &app{cfg: cfg, logger: logger, registry: registry, store: store, orch: orch}, nil
}

func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.store.Close()
}
