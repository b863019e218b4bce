package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"faq/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresStore keeps the index in Postgres with the pgvector extension.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

func (p *PostgresStore) Init(ctx context.Context) error {
	return p.createIndexTables(ctx)
}

func (p *PostgresStore) createIndexTables(ctx context.Context) error {
	query := `
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS qa_index_meta (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		build_id UUID NOT NULL,
		embedding_model TEXT NOT NULL,
		dimension INTEGER NOT NULL,
		doc_count INTEGER NOT NULL,
		built_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS qa_documents (
		id UUID PRIMARY KEY,
		build_id UUID,
		position INT NOT NULL,
		content TEXT NOT NULL,
		embedding vector NOT NULL
	);

	ALTER TABLE qa_documents ADD COLUMN IF NOT EXISTS build_id UUID;

	CREATE INDEX IF NOT EXISTS idx_qa_documents_build ON qa_documents(build_id, position);
	`
	_, err := p.pool.Exec(ctx, query)
	return err
}

// Replace writes a new build inside one transaction and drops every other
// build's rows on commit, so readers see either the previous build or the
// new one.
func (p *PostgresStore) Replace(ctx context.Context, docs []types.Document, embeddingModel string) (types.IndexInfo, error) {
	dim, err := dimensionOf(docs)
	if err != nil {
		return types.IndexInfo{}, err
	}
	info := types.IndexInfo{
		BuildID:        uuid.New(),
		EmbeddingModel: embeddingModel,
		Dimension:      dim,
		Count:          len(docs),
		BuiltAt:        time.Now().UTC(),
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return types.IndexInfo{}, err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, d := range docs {
		batch.Queue(
			`INSERT INTO qa_documents (id, build_id, position, content, embedding) VALUES ($1, $2, $3, $4, $5)`,
			d.ID, info.BuildID, d.Position, d.Content, pgvector.NewVector(d.Embedding),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return types.IndexInfo{}, fmt.Errorf("insert documents: %w", err)
	}

	query := `INSERT INTO qa_index_meta (id, build_id, embedding_model, dimension, doc_count, built_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			build_id = EXCLUDED.build_id,
			embedding_model = EXCLUDED.embedding_model,
			dimension = EXCLUDED.dimension,
			doc_count = EXCLUDED.doc_count,
			built_at = EXCLUDED.built_at
			`
	if _, err := tx.Exec(ctx, query,
		info.BuildID, info.EmbeddingModel, info.Dimension, info.Count, info.BuiltAt,
	); err != nil {
		return types.IndexInfo{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM qa_documents WHERE build_id IS DISTINCT FROM $1`, info.BuildID); err != nil {
		return types.IndexInfo{}, fmt.Errorf("drop previous build: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return types.IndexInfo{}, err
	}
	return info, nil
}

// Load reads the current build into memory from one consistent snapshot.
// Later builds do not affect the returned index.
func (p *PostgresStore) Load(ctx context.Context, embeddingModel string) (Index, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrIndexUnavailable, err)
	}
	defer tx.Rollback(ctx)

	var info types.IndexInfo
	err = tx.QueryRow(ctx,
		`SELECT build_id, embedding_model, dimension, doc_count, built_at FROM qa_index_meta WHERE id = 1`,
	).Scan(&info.BuildID, &info.EmbeddingModel, &info.Dimension, &info.Count, &info.BuiltAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no index has been built", types.ErrIndexUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrIndexUnavailable, err)
	}
	if err := checkModel(info, embeddingModel); err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT id, position, content, embedding FROM qa_documents WHERE build_id = $1 ORDER BY position`,
		info.BuildID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	docs := make([]types.Document, 0, info.Count)
	for rows.Next() {
		var (
			d   types.Document
			vec pgvector.Vector
		)
		if err := rows.Scan(&d.ID, &d.Position, &d.Content, &vec); err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrIndexUnavailable, err)
		}
		d.Embedding = vec.Slice()
		if len(d.Embedding) != info.Dimension {
			return nil, fmt.Errorf("%w: document %s has %d dimensions, index has %d",
				types.ErrIndexUnavailable, d.ID, len(d.Embedding), info.Dimension)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrIndexUnavailable, err)
	}
	if len(docs) != info.Count {
		return nil, fmt.Errorf("%w: build %s lists %d documents, found %d",
			types.ErrIndexUnavailable, info.BuildID, info.Count, len(docs))
	}

	log.Printf("[SEARCH] loaded build %s: %d documents", info.BuildID, len(docs))
	return NewMemoryIndex(info, docs), nil
}

// Close closes the connection pool.
func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
