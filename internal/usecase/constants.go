package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultDashboardTTL is how long a computed dashboard stays cached
	DefaultDashboardTTL = 5 * time.Minute

	// ResetTokenTTL is how long a password reset link stays valid
	ResetTokenTTL = time.Hour
)
