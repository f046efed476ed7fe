package app

import (
	"strings"

	"github.com/courseforge/backend/internal/cache"
	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/store"
)

type Clients struct {
	Store store.Client
	Cache cache.Cache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	storeClient, err := store.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	var cacheClient cache.Cache
	switch strings.ToLower(cfg.CacheBackend) {
	case "redis":
		redisCache, err := cache.NewRedisCache(log)
		if err != nil {
			log.Warn("Redis cache init failed, falling back to memory cache", "error", err)
			cacheClient = cache.NewMemoryCache(cfg.CacheMaxEntries, nil)
		} else {
			cacheClient = redisCache
		}
	default:
		cacheClient = cache.NewMemoryCache(cfg.CacheMaxEntries, nil)
	}

	return Clients{Store: storeClient, Cache: cacheClient}, nil
}
