package usecase

import "time"

const (
	// DefaultQueryTimeout bounds a single round trip to the data service.
	DefaultQueryTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
