package app

import (
	"time"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	StartingCredits int
	CacheBackend    string
	CacheMaxEntries int
	Environment     string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	startingCredits := utils.GetEnvAsInt("STARTING_CREDITS", 3, log)
	cacheBackend := utils.GetEnv("CACHE_BACKEND", "memory", log)
	cacheMaxEntries := utils.GetEnvAsInt("CACHE_MAX_ENTRIES", 512, log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		StartingCredits: startingCredits,
		CacheBackend:    cacheBackend,
		CacheMaxEntries: cacheMaxEntries,
		Environment:     environment,
	}
}
