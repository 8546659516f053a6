// Package pgvec stores fragments in PostgreSQL with the pgvector
// extension. The nearest-neighbour query uses the cosine distance
// operator (<=>), so similarity is 1 - distance.
package pgvec

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
	"github.com/rizkyfm/docchat/pkg/logx"
)

type Store struct {
	pool      *pgxpool.Pool
	dimension int
	logger    *logx.Logger
}

func Connect(ctx context.Context, dsn string, dimension int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres is offline: %w", err)
	}

	s := &Store{pool: pool, dimension: dimension, logger: logx.NewLogger("pgvec")}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("Closing postgres pool")
		pool.Close()
	}()

	s.logger.Info("Fragment store ready", "dimension", dimension)
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS fragments (
			id UUID PRIMARY KEY,
			owner_id TEXT NOT NULL,
			source_name TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			degraded BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dimension),
		`CREATE INDEX IF NOT EXISTS fragments_owner_idx ON fragments (owner_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring fragments schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, f *ragmodel.Fragment) error {
	if len(f.Vector) != s.dimension {
		return &ragmodel.DimensionError{Got: len(f.Vector), Want: s.dimension}
	}

	f.ID = uuid.New().String()
	f.CreatedAt = time.Now()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO fragments (id, owner_id, source_name, content, embedding, degraded, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		f.ID, f.OwnerID, f.SourceName, f.Text, pgvector.NewVector(f.Vector), f.Degraded, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting fragment: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, ownerID string, query []float32, k int) ([]vectorstore.Match, error) {
	if k <= 0 {
		return []vectorstore.Match{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, source_name, content, degraded, created_at,
		        1 - (embedding <=> $1) AS similarity
		 FROM fragments
		 WHERE owner_id = $2
		 ORDER BY embedding <=> $1 ASC, created_at ASC
		 LIMIT $3`,
		pgvector.NewVector(query), ownerID, k)
	if err != nil {
		return nil, fmt.Errorf("searching fragments: %w", err)
	}
	defer rows.Close()

	var matches []vectorstore.Match
	for rows.Next() {
		var m vectorstore.Match
		if err := rows.Scan(&m.Fragment.ID, &m.Fragment.OwnerID, &m.Fragment.SourceName,
			&m.Fragment.Text, &m.Fragment.Degraded, &m.Fragment.CreatedAt, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scanning fragment row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading fragment rows: %w", err)
	}
	return matches, nil
}
