package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// PostgresStore persists per-user memory in PostgreSQL. When an embedder is
// configured, Search is a pgvector similarity query; otherwise it degrades
// to keyword matching.
type PostgresStore struct {
	pool     *pgxpool.Pool
	embedder Embedder
	dim      int
	limit    int
}

func NewPostgresStore(ctx context.Context, databaseURL string, embedder Embedder, embeddingDim, searchLimit int) (*PostgresStore, error) {
	if embeddingDim <= 0 {
		embeddingDim = 768
	}
	if searchLimit <= 0 {
		searchLimit = 8
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool, embeddingDim); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool:     pool,
		embedder: embedder,
		dim:      embeddingDim,
		limit:    searchLimit,
	}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool, dim int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector;`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS health_memories (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`, dim),
		`CREATE INDEX IF NOT EXISTS idx_health_memories_user_created ON health_memories (user_id, created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM health_memories WHERE user_id=$1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Search(ctx context.Context, query, userID string) ([]Record, error) {
	if s.embedder != nil {
		vec, err := s.embedder.EmbedQuery(ctx, query)
		if err == nil {
			return s.searchByVector(ctx, userID, vec)
		}
		// Embedding failure degrades to keyword search rather than losing
		// the whole turn.
	}
	return s.searchByKeyword(ctx, userID, query)
}

func (s *PostgresStore) searchByVector(ctx context.Context, userID string, vec []float32) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role, content FROM health_memories
		 WHERE user_id=$1 AND embedding IS NOT NULL
		 ORDER BY embedding <=> $2 LIMIT $3`,
		userID,
		pgvector.NewVector(vec),
		s.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *PostgresStore) searchByKeyword(ctx context.Context, userID, query string) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role, content FROM health_memories
		 WHERE user_id=$1 AND content ILIKE '%' || $2 || '%'
		 ORDER BY created_at DESC LIMIT $3`,
		userID,
		query,
		s.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}

	// Nothing matched the query text: fall back to the most recent records.
	recent, err := s.pool.Query(ctx,
		`SELECT role, content FROM health_memories
		 WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`,
		userID,
		s.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent records: %w", err)
	}
	defer recent.Close()
	return scanRecords(recent)
}

func scanRecords(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Role, &r.Content); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) AddTurns(ctx context.Context, userID string, turns []Turn) error {
	now := time.Now().UTC()
	for i, t := range turns {
		var embedding any
		if s.embedder != nil {
			if vec, err := s.embedder.EmbedDocument(ctx, t.Content); err == nil {
				embedding = pgvector.NewVector(vec)
			}
			// A failed embedding still stores the text; keyword search can
			// find it later.
		}

		_, err := s.pool.Exec(ctx,
			`INSERT INTO health_memories (id, user_id, role, content, embedding, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(),
			userID,
			t.Role,
			t.Content,
			embedding,
			now.Add(time.Duration(i)*time.Microsecond),
		)
		if err != nil {
			return fmt.Errorf("save turn: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
