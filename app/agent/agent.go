package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"faq/cache"
	"faq/model"
	"faq/store"
	"faq/types"
)

// ContextDocs is the most documents ever placed in a prompt.
const ContextDocs = 3

const promptTemplate = `You are an admissions FAQ assistant for %s.
Answer briefly, clearly, and warmly, in the same language as the user's question. Encourage them to complete their application.

Question:
%s

Relevant context (may contain Q&A snippets):
%s

Now write the answer in the user's language:`

type Options struct {
	TopK int
	// MinSimilarity drops hits whose cosine similarity is below it.
	// Zero keeps every top-K hit.
	MinSimilarity float64
	SchoolName    string
}

func DefaultOptions() Options {
	return Options{
		TopK:       4,
		SchoolName: "the seminary",
	}
}

// Agent answers questions from the similarity index.
type Agent struct {
	logger    *slog.Logger
	embedder  model.EmbedderInterface
	generator model.Generator
	index     *cache.Cache[store.Index]
	opts      Options
}

func New(embedder model.EmbedderInterface, generator model.Generator, index *cache.Cache[store.Index], opts Options) *Agent {
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.SchoolName == "" {
		opts.SchoolName = DefaultOptions().SchoolName
	}
	return &Agent{
		logger:    slog.Default(),
		embedder:  embedder,
		generator: generator,
		index:     index,
		opts:      opts,
	}
}

// IndexCache loads the index from storer once and keeps it until invalidated.
func IndexCache(storer store.IndexStorer, embeddingModel string) *cache.Cache[store.Index] {
	return cache.New[store.Index]("index", 0, func(ctx context.Context) (store.Index, error) {
		idx, err := storer.Load(ctx, embeddingModel)
		if err != nil {
			return nil, err
		}
		info := idx.Info()
		slog.Info("[INDEX] loaded", "documents", info.Count, "model", info.EmbeddingModel, "build_id", info.BuildID)
		return idx, nil
	})
}

// Retrieve returns up to TopK documents closest to query, closest first.
// A blank query or an empty index yields no documents.
func (a *Agent) Retrieve(ctx context.Context, query string) ([]types.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []types.SearchResult{}, nil
	}

	idx, err := a.index.Get(ctx)
	if err != nil {
		return nil, err
	}
	if idx.Info().Count == 0 {
		return []types.SearchResult{}, nil
	}

	vec, err := a.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := idx.Search(ctx, vec, a.opts.TopK)
	if err != nil {
		return nil, err
	}
	return a.filter(results), nil
}

func (a *Agent) filter(results []types.SearchResult) []types.SearchResult {
	if a.opts.MinSimilarity <= 0 {
		return results
	}
	kept := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Similarity() >= a.opts.MinSimilarity {
			kept = append(kept, r)
		} else {
			a.logger.Debug("[FILTER] dropped document", "id", r.ID, "similarity", r.Similarity(), "min", a.opts.MinSimilarity)
		}
	}
	return kept
}

// ComposePrompt places the first ContextDocs documents, separated by a blank
// line, into the instruction template.
func (a *Agent) ComposePrompt(query string, docs []types.SearchResult) string {
	if len(docs) > ContextDocs {
		docs = docs[:ContextDocs]
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return fmt.Sprintf(promptTemplate, a.opts.SchoolName, query, strings.Join(parts, "\n\n"))
}

func (a *Agent) Generate(ctx context.Context, prompt string) (string, error) {
	return a.generator.Generate(ctx, prompt)
}

// Answer runs retrieval and, when anything was found, generation. With no
// documents the localized not-found message is returned and the model is
// not called.
func (a *Agent) Answer(ctx context.Context, query string, lang types.Lang) (*types.Answer, error) {
	docs, err := a.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		a.logger.Info("[CONTEXT] no documents retrieved", "lang", lang)
		return &types.Answer{
			Found:     false,
			Answer:    types.Message(lang, types.MsgNotFound),
			Sources:   []types.Source{},
			Timestamp: time.Now(),
		}, nil
	}

	prompt := a.ComposePrompt(query, docs)
	a.logger.Info("[CONTEXT] prompt composed", "documents", min(len(docs), ContextDocs), "chars", len(prompt))

	output, err := a.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &types.Answer{
		Found:      true,
		Answer:     output,
		Sources:    formatSources(docs),
		Confidence: docs[0].Similarity(),
		Timestamp:  time.Now(),
	}, nil
}

func formatSources(docs []types.SearchResult) []types.Source {
	if len(docs) > ContextDocs {
		docs = docs[:ContextDocs]
	}
	sources := make([]types.Source, len(docs))
	for i, d := range docs {
		sources[i] = types.Source{
			DocID:     d.ID.String(),
			ChunkText: d.Content,
			Index:     d.Position,
			Distance:  d.Distance,
		}
	}
	return sources
}
