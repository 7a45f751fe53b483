// ABOUTME: Wires configuration, storage, agents, and the orchestrator into one handle
// ABOUTME: The CLI and both servers build their dependencies through New
package app

import (
	"fmt"

	"github.com/harper/tweak-my-meal/internal/agents"
	"github.com/harper/tweak-my-meal/internal/config"
	"github.com/harper/tweak-my-meal/internal/core"
	"github.com/harper/tweak-my-meal/internal/llm"
	"github.com/harper/tweak-my-meal/internal/logging"
	"github.com/harper/tweak-my-meal/internal/storage"
	"go.uber.org/zap"
)

// App holds the long-lived components of a running assistant
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Storage      *storage.Storage
	Orchestrator *core.Orchestrator
	Sweeper      *core.Sweeper
}

// New builds an App from cfg. Without an OpenAI key the agents are disabled
// and memories are embedded locally, so storage-backed commands still work.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	var (
		completer llm.Completer = llm.Disabled{}
		embedder  llm.Embedder
	)
	if cfg.HasOpenAI() {
		client, err := llm.NewOpenAIClient(llm.ConfigFrom(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("creating model client: %w", err)
		}
		completer, embedder = client, client
	} else {
		logger.Warn("OPENAI_API_KEY not set, agent calls will fail")
	}

	store, err := storage.Open(cfg.DBPath, cfg.SessionTTL, embedder, logger)
	if err != nil {
		return nil, err
	}

	invoker, err := agents.NewInvoker(completer,
		agents.WithVisionModel(cfg.VisionModel),
		agents.WithLogger(logger))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sweeper, err := core.NewSweeper(store, cfg.SessionSweepCron, cfg.PreferenceDecay, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	opts := core.Options{
		VisionMinConfidence: cfg.VisionMinConfidence,
		MemoryMinSimilarity: cfg.MemoryMinSimilarity,
	}
	return &App{
		Config:       cfg,
		Logger:       logger,
		Storage:      store,
		Orchestrator: core.NewOrchestrator(store, invoker, opts, logger),
		Sweeper:      sweeper,
	}, nil
}

// Close releases the database
func (a *App) Close() error {
	return a.Storage.Close()
}
