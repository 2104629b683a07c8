package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/energy-eservice/internal/cache"
)

// cacheGet treats cache failures as misses.
func cacheGet(ctx context.Context, c cache.Cache, key string, dest interface{}) bool {
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache read failed")
		return false
	}
	return found
}

func cachePut(ctx context.Context, c cache.Cache, key string, value interface{}, ttl time.Duration) {
	if err := c.Set(ctx, key, value, ttl); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}
