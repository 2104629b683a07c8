// Package cache holds read-model query results keyed by query identity.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON-encoded query results.
type Cache interface {
	// Get decodes the entry into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// Key joins the namespace, subject and query parts, e.g.
// "portal:u-17:request:abc:new".
func Key(namespace, subject string, parts ...string) string {
	all := make([]string, 0, len(parts)+2)
	all = append(all, namespace, subject)
	all = append(all, parts...)
	return strings.Join(all, ":")
}
