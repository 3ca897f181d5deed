package utils

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// CacheInvalidator purges cached event responses after a mutation so reads
// in the same request cycle see fresh availability and status.
type CacheInvalidator struct{ rdb *redis.Client }

func NewCacheInvalidator(rdb *redis.Client) *CacheInvalidator { return &CacheInvalidator{rdb} }

func (ci *CacheInvalidator) PurgeEventsList(ctx context.Context) {
	iter := ci.rdb.Scan(ctx, 0, "cache:events:list:*", 0).Iterator()
	for iter.Next(ctx) {
		_ = ci.rdb.Del(ctx, iter.Val()).Err()
	}
}

// PurgeEventItem drops every cached event detail. Keys carry a hash of the
// id, not the id itself, so a targeted delete is not possible; item reads
// are cheap enough that the blanket purge is acceptable.
func (ci *CacheInvalidator) PurgeEventItem(ctx context.Context, id string) {
	iter := ci.rdb.Scan(ctx, 0, "cache:events:item:*", 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if strings.HasPrefix(k, "cache:events:item:") {
			_ = ci.rdb.Del(ctx, k).Err()
		}
	}
}
