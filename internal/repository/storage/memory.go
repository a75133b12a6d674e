package storage

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process Storage for tests. Entries are never swept, so it is not meant for a long-running server.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (that *MemoryStore) Read(_ context.Context, key string) (string, bool, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	entry, ok := that.entries[key]
	if !ok {
		return "", false, nil
	}

	if !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt) {
		return "", false, nil
	}

	return entry.value, true, nil
}

func (that *MemoryStore) Write(ctx context.Context, key, value string, opts WriteOptions) error {
	if opts.ConsentRequired {
		// never fails for the in-memory store
		consent, _ := consentGiven(ctx, that)
		if !consent {
			return nil
		}
	}

	entry := memoryEntry{value: value}
	if opts.Expiry > 0 {
		entry.expiresAt = that.now().Add(opts.Expiry)
	}

	that.mu.Lock()
	that.entries[key] = entry
	that.mu.Unlock()

	return nil
}
