// Package app assembles the service from its collaborators.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"roomstyler/internal/artifact"
	"roomstyler/internal/config"
	"roomstyler/internal/design"
	"roomstyler/internal/gemini"
	"roomstyler/internal/handler"
	"roomstyler/internal/record"
	"roomstyler/internal/server"
)

type App struct {
	server *server.Server
	client *gemini.Client
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:     cfg.Gemini.APIKey,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init gemini client: %w", err)
	}

	analyzer, err := gemini.NewCachedAnalyzer(client, cfg.Gemini.AnalysisCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to init analysis cache: %w", err)
	}

	var store artifact.Store
	if cfg.Artifact.Enabled {
		store, err = artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 artifact store: %w", err)
		}
	} else {
		store = artifact.NewDiskStore(cfg.Upload.Dir)
	}

	var records record.Store
	if cfg.RecordDSN != "" {
		pg, err := record.NewPostgresStore(cfg.RecordDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to init batch record store: %w", err)
		}
		records = pg
	} else {
		log.Printf("BATCH_RECORD_PG_DSN not set; batch history kept in memory")
		records = record.NewMemoryStore()
	}

	svc := handler.NewService(
		design.DefaultCatalog(),
		analyzer,
		client,
		store,
		records,
		cfg.Generation,
		cfg.Upload,
	)

	mux := http.NewServeMux()
	svc.Register(mux)
	srv := server.New(cfg.Port, server.CORS(mux))

	return &App{server: srv, client: client}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.client.Close(); err == nil {
		err = cerr
	}
	return err
}
