package storage

import (
	"context"
	"time"
)

const (
	// ConsentKey holds "true" once the visitor agreed to persistent storage.
	ConsentKey = "cookieConsent"
	// AcceptedKey holds "true" once the visitor dismissed the consent banner.
	AcceptedKey = "cookieAccepted"
)

// WriteOptions controls how long a value lives and whether it needs consent.
type WriteOptions struct {
	// Expiry of zero keeps the value until it is overwritten.
	Expiry time.Duration
	// ConsentRequired writes are dropped until ConsentKey reads "true".
	ConsentRequired bool
}

// Storage is a session-scoped key-value store.
type Storage interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string, opts WriteOptions) error
}

func consentGiven(ctx context.Context, store Storage) (bool, error) {
	value, ok, err := store.Read(ctx, ConsentKey)
	if err != nil {
		return false, err
	}

	return ok && value == "true", nil
}
