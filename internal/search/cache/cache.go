// Package cache provides the detail-lookup cache fronting the corpus. It is
// an injected collaborator with an explicit TTL; entries are only ever
// invalidated by a forced refresh, never pushed.
package cache

import (
	"context"
	"time"

	"sanctionwatch/internal/sanction/models"
)

// DefaultTTL is how long a cached detail record stays valid.
const DefaultTTL = time.Hour

// Cache stores records by id. A miss is (nil, nil); errors are reserved for
// backend failures.
type Cache interface {
	Get(ctx context.Context, id string) (*models.Record, error)
	Set(ctx context.Context, rec *models.Record) error
	Delete(ctx context.Context, id string) error
}
