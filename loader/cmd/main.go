package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"faq/config"
	"faq/loader/service"
	"faq/model"
	"faq/sheets"
	"faq/store"
)

func init() {
	config.LoadEnv()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	source, err := sheets.NewClient(ctx, sheets.Options{
		Credentials: cfg.SheetCreds,
		QASheet:     cfg.QASheet,
		QARange:     cfg.QASheetRange,
	})
	if err != nil {
		log.Fatal("error to create sheets client: ", err)
	}

	storer, closeStore, err := store.Open(ctx, cfg.IndexBackend, cfg.IndexDir, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("error to open index store: ", err)
	}
	defer closeStore()

	retry := model.DefaultRetryPolicy()
	retry.MaxRetries = cfg.MaxRetries
	client := model.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	embedder := model.NewEmbedder(client, cfg.EmbeddingModel, retry)

	info, err := service.New(source, embedder, storer).Build(ctx)
	if err != nil {
		closeStore()
		log.Fatal("index build failed: ", err)
	}
	log.Printf("Index built: %d documents, model %s, build %s", info.Count, info.EmbeddingModel, info.BuildID)
}
