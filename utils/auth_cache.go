// File: utils/auth_cache.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// AuthCacheEntry is what the auth middleware remembers about a live session.
type AuthCacheEntry struct {
	TokenHash string `json:"tokenHash"`
	Role      string `json:"role"`
}

// GetAuthCacheEntry returns the cached session for userID, or redis.Nil on a miss.
func GetAuthCacheEntry(ctx context.Context, client *redis.Client, userID string) (*AuthCacheEntry, error) {
	data, err := client.Get(ctx, AuthCachePrefix+userID).Result()
	if err != nil {
		return nil, err
	}
	var entry AuthCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth cache entry: %w", err)
	}
	return &entry, nil
}

// SetAuthCacheEntry caches the session of userID for AuthCacheTTL.
func SetAuthCacheEntry(ctx context.Context, client *redis.Client, userID string, entry AuthCacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal auth cache entry: %w", err)
	}
	return client.Set(ctx, AuthCachePrefix+userID, data, AuthCacheTTL).Err()
}

// DeleteAuthCacheEntry drops the cached session so the next request re-reads MongoDB.
func DeleteAuthCacheEntry(ctx context.Context, client *redis.Client, userID string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, AuthCachePrefix+userID).Err()
}
