package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds the coordinate-table cache settings
type CacheConfig struct {
	TableLRUSize       int
	TableLRUTTLMinutes int
	EnableLRUCache     bool
}

const (
	// Default values
	defaultTableLRUSize    = 64
	defaultTableTTLMinutes = 60
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		TableLRUSize:       getEnvInt("CACHE_TABLE_LRU_SIZE", defaultTableLRUSize),
		TableLRUTTLMinutes: getEnvInt("CACHE_TABLE_TTL_MINUTES", defaultTableTTLMinutes),
		EnableLRUCache:     getEnvBool("CACHE_ENABLE_LRU", true),
	}

	log.Debug().
		Int("TableLRUSize", config.TableLRUSize).
		Int("TableLRUTTLMinutes", config.TableLRUTTLMinutes).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetTableLRUTTL() time.Duration {
	return time.Duration(c.TableLRUTTLMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
