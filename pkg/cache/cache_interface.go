package cache

import (
	"context"
	"time"
)

// Cache is the contract for the key-value layer backing ephemeral state
// (store-backed sessions, health checks). Keeping it an interface lets the
// session store run against Redis in production and an in-memory fake in
// tests.
type Cache interface {
	// Get loads the value for key and unmarshals it into dest.
	// Returns found=false on a miss; dest is untouched in that case.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
