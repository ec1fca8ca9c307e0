package domain

import (
	"context"
	"time"
)

// Cache is the key-value cache used for read-only payloads (assembled
// quizzes, session status snapshots). Correctness paths never read through
// it.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = cacheMissError{}

type cacheMissError struct{}

func (cacheMissError) Error() string { return "cache miss" }
