package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-api/config"
)

const (
	productCacheKeyPrefix   = "pos:products:"
	dashboardCacheKeyPrefix = "pos:dashboard:"
)

func productCacheKey(storeID uint) string {
	return fmt.Sprintf("%s%d", productCacheKeyPrefix, storeID)
}

func dashboardCacheKey(storeID uint) string {
	return fmt.Sprintf("%s%d:%s", dashboardCacheKeyPrefix, storeID, time.Now().Format("2006-01-02"))
}

// cacheGetJSON is best-effort: a nil client or any redis error just
// reports a miss.
func cacheGetJSON(ctx context.Context, key string, dest interface{}) bool {
	if config.RDB == nil {
		return false
	}
	val, err := config.RDB.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func cacheSetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if config.RDB == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = config.RDB.Set(ctx, key, payload, ttl).Err()
}

// invalidateStoreCaches drops cached reads after any write that touches
// stock or the catalog.
func invalidateStoreCaches(ctx context.Context, storeID uint) {
	if config.RDB == nil {
		return
	}
	_ = config.RDB.Del(ctx, productCacheKey(storeID), dashboardCacheKey(storeID)).Err()
}
