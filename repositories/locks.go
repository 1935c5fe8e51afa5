package repositories

import (
	"CarePoint/database"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	lockTTL        = 10 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 2 * time.Second
)

// withLock serializes fn against other holders of key using a Redis lock.
// When no lock backend is configured fn runs directly; the unique indexes
// on appointments and reviews then decide any race at insert time.
func withLock(ctx context.Context, key string, fn func() error) error {
	if !database.LockAvailable() {
		return fn()
	}

	lockValue := uuid.New().String()

	var locked bool
	var err error
	for i := 0; i < lockMaxRetries; i++ {
		locked, err = database.NewLock(ctx, key, lockValue, lockTTL)
		if err == nil && locked {
			break
		}
		if i < lockMaxRetries-1 {
			time.Sleep(lockRetryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock %s after retries: %w", key, err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, key, lockValue); err != nil {
			log.Printf("Failed to release lock %s: %v", key, err)
		}
	}()

	return fn()
}
