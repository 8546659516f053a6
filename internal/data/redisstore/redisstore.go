// Package redisstore wraps the redis client behind a small command
// surface. One logical store maps to one redis DB index.
package redisstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var (
	instances = make(map[int]*Store)
	mu        sync.RWMutex
	logger    *logx.Logger
	once      sync.Once
)

type Store struct {
	client *redis.Client
	Type   int
}

func GetRedisStore(ctx context.Context, dbType int) *Store {
	mu.RLock()
	instance, exists := instances[dbType]
	mu.RUnlock()

	if exists {
		return instance
	}

	mu.Lock()
	defer mu.Unlock()

	if instance, exists = instances[dbType]; exists {
		return instance
	}
	return createNewStore(ctx, dbType)
}

func initLogger(dbType int) {
	if logger == nil {
		logger = logx.NewLogger("redis_store_" + strconv.Itoa(dbType))
	}
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing redis stores")
	mu.Lock()
	defer mu.Unlock()
	for _, store := range instances {
		if err := store.client.Close(); err != nil {
			logger.Error("Error closing redis client", "error", err)
		}
	}
	logger.Info("Redis stores closed")
}

func createNewStore(ctx context.Context, dbType int) *Store {
	initLogger(dbType)

	newClient := redis.NewClient(&redis.Options{
		Addr:                  config.Getenv("REDIS_ADDR", config.RedisAddr),
		Password:              config.Getenv("REDIS_PASSWORD", ""),
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline", "error", err)
		return nil
	}

	logger.Info("Redis store ready", "db", dbType)

	newStore := &Store{client: newClient, Type: dbType}
	instances[dbType] = newStore
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return newStore
}

// NewTestStore exists for _test.go files that run against miniredis.
func NewTestStore(client *redis.Client) *Store {
	initLogger(-1)
	return &Store{client: client}
}
