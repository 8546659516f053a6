// Package qdrantdb is the Qdrant-backed fragment store, an alternative to
// the PostgreSQL backend for deployments that already run Qdrant.
package qdrantdb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
	"github.com/rizkyfm/docchat/pkg/logx"
)

type Store struct {
	client    *qdrant.Client
	dimension int
	logger    *logx.Logger
}

func Connect(ctx context.Context, dimension int) (*Store, error) {
	logger := logx.NewLogger("qdrant")

	host := config.Getenv("QDRANT_HOST", config.QdrantHost)
	port, err := strconv.Atoi(config.Getenv("QDRANT_PORT", strconv.Itoa(config.QdrantGrpcPort)))
	if err != nil {
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	s := &Store{client: client, dimension: dimension, logger: logger}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		logger.Info("Closing qdrant client")
		if err := client.Close(); err != nil {
			logger.Error("could not close qdrant", "error", err)
		}
	}()

	logger.Info("Fragment store ready", "collection", config.QdrantCollectionName)
	return s, nil
}

func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, config.QdrantCollectionName)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: config.QdrantCollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, f *ragmodel.Fragment) error {
	if len(f.Vector) != s.dimension {
		return &ragmodel.DimensionError{Got: len(f.Vector), Want: s.dimension}
	}

	f.ID = uuid.New().String()
	f.CreatedAt = time.Now()

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.QdrantCollectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(f.ID),
				Vectors: qdrant.NewVectors(f.Vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"owner_id":    f.OwnerID,
					"source_name": f.SourceName,
					"content":     f.Text,
					"degraded":    f.Degraded,
					"created_at":  f.CreatedAt.Unix(),
				}),
			},
		},
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, ownerID string, query []float32, k int) ([]vectorstore.Match, error) {
	if k <= 0 {
		return []vectorstore.Match{}, nil
	}

	result, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.QdrantCollectionName,
		Query:          qdrant.NewQuery(query...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("owner_id", ownerID),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	matches := make([]vectorstore.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, vectorstore.Match{
			Fragment: ragmodel.Fragment{
				ID:         hit.Id.GetUuid(),
				OwnerID:    hit.Payload["owner_id"].GetStringValue(),
				SourceName: hit.Payload["source_name"].GetStringValue(),
				Text:       hit.Payload["content"].GetStringValue(),
				Degraded:   hit.Payload["degraded"].GetBoolValue(),
				CreatedAt:  time.Unix(hit.Payload["created_at"].GetIntegerValue(), 0),
			},
			Similarity: float64(hit.Score),
		})
	}
	return matches, nil
}
