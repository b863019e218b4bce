package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"faq/app/agent"
	"faq/app/api"
	"faq/app/middleware"
	"faq/cache"
	"faq/config"
	"faq/model"
	"faq/sheets"
	"faq/store"
	"faq/types"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
)

var fiberConfig = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

// Deps are the components the HTTP routes are built from.
type Deps struct {
	Agent    api.Answerer
	Leads    api.LeadWriter
	Listing  *cache.Cache[[]types.QARecord]
	Index    *cache.Cache[store.Index]
	Sessions *session.Store

	// AdminToken guards cache refresh; empty refuses every caller.
	AdminToken string
}

// NewApp registers every route on a fresh fiber app.
func NewApp(d Deps) *fiber.App {
	var (
		app            = fiber.New(fiberConfig)
		gate           = middleware.NewSignupGate(d.Sessions)
		checkHandler   = api.NewCheckHandler(d.Index)
		requestHandler = api.NewRequestHandler(d.Agent)
		signupHandler  = api.NewSignupHandler(d.Leads, gate)
		faqHandler     = api.NewFAQHandler(d.Listing, d.Index)
		check          = app.Group("/check")
		apiv1          = app.Group("/api/v1")
	)
	app.Use(recover.New())

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/signup", signupHandler.HandleSignup)
	apiv1.Post("/ask", gate.Require(), requestHandler.HandleAsk)
	apiv1.Get("/faq", gate.Require(), faqHandler.HandleList)
	apiv1.Post("/cache/refresh", middleware.AdminOnly(d.AdminToken), faqHandler.HandleRefresh)
	return app
}

type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.Mutex
	app     *fiber.App
	stopped bool
}

func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (s *Server) Stop() {
	s.mu.Lock()
	app := s.app
	s.stopped = true
	s.mu.Unlock()
	if app != nil {
		if err := app.Shutdown(); err != nil {
			s.logger.Error("error to stop server", "error", err.Error())
			return
		}
	}
	s.logger.Info("server stopped")
}

// Run builds the components from the config and serves until Stop. Setup
// failures are returned before anything listens.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.cfg

	sheetClient, err := sheets.NewClient(ctx, sheets.Options{
		Credentials: cfg.SheetCreds,
		QASheet:     cfg.QASheet,
		QARange:     cfg.QASheetRange,
		SignupSheet: cfg.SignupSheet,
	})
	if err != nil {
		return fmt.Errorf("error to create sheets client: %w", err)
	}

	storer, closeStore, err := store.Open(ctx, cfg.IndexBackend, cfg.IndexDir, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("error to open index store: %w", err)
	}
	defer closeStore()

	retry := model.DefaultRetryPolicy()
	retry.MaxRetries = cfg.MaxRetries
	client := model.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	embedder := model.NewEmbedder(client, cfg.EmbeddingModel, retry)
	chat := model.NewChatModel(client, cfg.ChatModel, retry)
	chat.CountTokens = model.CountTokens

	index := agent.IndexCache(storer, cfg.EmbeddingModel)
	if _, err := index.Get(ctx); err != nil {
		s.logger.Warn("index not loaded, questions fail until it is built", "error", err.Error())
	}
	if cfg.AdminToken == "" {
		s.logger.Warn("ADMIN_TOKEN not set, cache refresh is disabled")
	}

	app := NewApp(Deps{
		Agent: agent.New(embedder, chat, index, agent.Options{
			TopK:          cfg.TopK,
			MinSimilarity: cfg.MinSimilarity,
			SchoolName:    cfg.SchoolName,
		}),
		Leads:      sheetClient,
		Listing:    agent.ListingCache(sheetClient, cfg.ListingTTL),
		Index:      index,
		Sessions:   session.New(),
		AdminToken: cfg.AdminToken,
	})

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.app = app
	s.mu.Unlock()

	if err := app.Listen(cfg.ServerAddr); err != nil {
		return fmt.Errorf("error to start server: %w", err)
	}
	return nil
}
