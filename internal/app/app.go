package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mangatheque/internal/imagedata"
	"mangatheque/internal/library"
	"mangatheque/internal/metadata"
	"mangatheque/internal/storage"
	synchub "mangatheque/internal/sync"
	"mangatheque/pkg/utils"
)

// App is the wired set of services shared by the server and the CLI.
type App struct {
	Cfg       utils.Config
	Log       *zap.Logger
	Slot      storage.Slot
	Store     *library.Store
	Hub       *synchub.Hub
	Syncer    *metadata.Syncer
	Suggester *metadata.Suggester
	Images    imagedata.Encoder
}

// New opens the configured storage and wires the services. A missing Gemini
// key leaves suggestion and sync disabled rather than failing.
func New(ctx context.Context, cfg utils.Config, log *zap.Logger) (*App, error) {
	slot, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	hub := synchub.NewHub(log)
	store, err := library.Open(ctx, slot, library.WithBroadcaster(hub), library.WithLogger(log))
	if err != nil {
		hub.Close()
		_ = slot.Close()
		return nil, fmt.Errorf("load collection: %w", err)
	}

	var gen metadata.Generator
	client, err := metadata.NewGeminiClient(ctx, metadata.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	switch {
	case errors.Is(err, metadata.ErrNoAPIKey):
		log.Warn("no gemini api key, suggestions and volume sync disabled")
	case err != nil:
		log.Warn("gemini client unavailable", zap.Error(err))
	default:
		gen = client
	}

	syncer := metadata.NewSyncer(gen, store, hub, log)
	store.SetSyncer(syncer)

	return &App{
		Cfg:       cfg,
		Log:       log,
		Slot:      slot,
		Store:     store,
		Hub:       hub,
		Syncer:    syncer,
		Suggester: metadata.NewSuggester(gen, log),
		Images:    imagedata.NewEncoder(cfg.ImageMaxBytes),
	}, nil
}

// Close waits for running syncs, then releases the hub and storage.
func (a *App) Close() error {
	a.Syncer.Wait()
	a.Hub.Close()
	return a.Slot.Close()
}
