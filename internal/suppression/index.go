package suppression

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/searchnrate/leadgate/internal/normalize"
	"github.com/searchnrate/leadgate/internal/rowstore"
	"github.com/searchnrate/leadgate/pkg/logging"
)

// Redis keys for the cached opt-out snapshot.
const (
	keyEmails   = "optout:emails"
	keyPhones   = "optout:phones"
	keySyncedAt = "optout:synced_at"
)

// Index is a Redis-backed snapshot of the normalized opt-out set. It bounds
// per-request latency as the opt-out table grows: lookups are set membership
// tests instead of full table scans. The snapshot is refreshed on a bounded
// interval and is only consulted while marked fresh, so correctness is
// never weaker than the direct scan it replaces.
type Index struct {
	client      redis.UniversalClient
	store       rowstore.Store
	phoneDigits int
	maxAge      time.Duration
	logger      *logging.Logger
}

// NewIndex creates an index over the given Redis client. maxAge bounds how
// old a snapshot may be before lookups fall back to scanning.
func NewIndex(client redis.UniversalClient, store rowstore.Store, phoneDigits int, maxAge time.Duration, logger *logging.Logger) *Index {
	if logger == nil {
		logger = logging.Default()
	}
	return &Index{client: client, store: store, phoneDigits: phoneDigits, maxAge: maxAge, logger: logger}
}

// Lookup answers from the cached snapshot. ok is false when the snapshot is
// missing, stale, or Redis is unreachable; callers must then fall back to a
// direct scan.
func (i *Index) Lookup(ctx context.Context, email, phone string) (hit bool, ok bool) {
	syncedAt, err := i.client.Get(ctx, keySyncedAt).Result()
	if err != nil {
		return false, false
	}
	ts, err := time.Parse(time.RFC3339Nano, syncedAt)
	if err != nil || time.Since(ts) > i.maxAge {
		return false, false
	}

	if email != "" {
		member, err := i.client.SIsMember(ctx, keyEmails, email).Result()
		if err != nil {
			return false, false
		}
		if member {
			return true, true
		}
	}
	if phone != "" {
		member, err := i.client.SIsMember(ctx, keyPhones, phone).Result()
		if err != nil {
			return false, false
		}
		if member {
			return true, true
		}
	}
	return false, true
}

// Refresh rebuilds the snapshot from the opt-out table. Returns the number
// of records indexed.
func (i *Index) Refresh(ctx context.Context) (int, error) {
	rows, err := i.store.Rows(ctx, rowstore.TableOptOuts)
	if err != nil {
		return 0, fmt.Errorf("suppression index: read opt-outs: %w", err)
	}

	var emails, phones []any
	for _, row := range rows {
		if e := normalize.Email(rowstore.Col(row, colEmail)); e != "" {
			emails = append(emails, e)
		}
		if p := normalize.PhoneNational(rowstore.Col(row, colPhone), i.phoneDigits); p != "" {
			phones = append(phones, p)
		}
	}

	// Build aside and rename so lookups never observe a half-built set.
	pipe := i.client.TxPipeline()
	pipe.Del(ctx, keyEmails+":next", keyPhones+":next")
	if len(emails) > 0 {
		pipe.SAdd(ctx, keyEmails+":next", emails...)
	}
	if len(phones) > 0 {
		pipe.SAdd(ctx, keyPhones+":next", phones...)
	}
	pipe.Del(ctx, keyEmails, keyPhones)
	if len(emails) > 0 {
		pipe.Rename(ctx, keyEmails+":next", keyEmails)
	}
	if len(phones) > 0 {
		pipe.Rename(ctx, keyPhones+":next", keyPhones)
	}
	pipe.Set(ctx, keySyncedAt, time.Now().UTC().Format(time.RFC3339Nano), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("suppression index: write snapshot: %w", err)
	}
	return len(rows), nil
}

// Add inserts a single opt-out into the live snapshot so a fresh opt-out is
// honored before the next full refresh.
func (i *Index) Add(ctx context.Context, email, phone string) {
	if email != "" {
		if err := i.client.SAdd(ctx, keyEmails, email).Err(); err != nil {
			i.logger.Warn("suppression index: add email failed", "error", err)
		}
	}
	if phone != "" {
		if err := i.client.SAdd(ctx, keyPhones, phone).Err(); err != nil {
			i.logger.Warn("suppression index: add phone failed", "error", err)
		}
	}
}

// Run refreshes the snapshot on the given interval until ctx is canceled.
// onRefresh, when non-nil, receives the record count after each successful
// refresh (used for the suppression gauge).
func (i *Index) Run(ctx context.Context, interval time.Duration, onRefresh func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := i.Refresh(ctx)
		if err != nil {
			i.logger.Error("suppression index: refresh failed", "error", err)
		} else {
			i.logger.Debug("suppression index: refreshed", "records", n)
			if onRefresh != nil {
				onRefresh(n)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
