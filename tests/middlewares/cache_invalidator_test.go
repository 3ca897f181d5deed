package tests

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"seminarhub/utils"
)

func TestCacheInvalidator_Purge(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Cleanup(func() { mr.Close() })
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inv := utils.NewCacheInvalidator(rdb)

	ctx := context.Background()
	_ = rdb.Set(ctx, "cache:events:list:page=1", "x", 0).Err()
	_ = rdb.Set(ctx, "cache:events:item:abc", "x", 0).Err()
	_ = rdb.Set(ctx, "quota:user:7:day", "3", 0).Err() // unrelated, must survive

	inv.PurgeEventsList(ctx)
	inv.PurgeEventItem(ctx, "abc")

	keys := mr.Keys()
	if len(keys) != 1 || keys[0] != "quota:user:7:day" {
		t.Fatalf("unexpected keys after purge: %v", keys)
	}
}
