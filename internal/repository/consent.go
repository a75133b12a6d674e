package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-bot/internal/repository/storage"
)

const flagTrue = "true"

// Consent mirrors the two flags the client keeps about persistent storage.
type Consent struct {
	// Accepted means the banner was dismissed.
	Accepted bool `json:"accepted"`
	// Given means moves may be persisted.
	Given bool `json:"given"`
}

type ConsentRepository interface {
	Load(ctx context.Context) Consent
	Accept(ctx context.Context) error
}

type consentRepository struct {
	store  storage.Storage
	expiry time.Duration
}

func NewConsentRepository(store storage.Storage, expiry time.Duration) ConsentRepository {
	return &consentRepository{
		store:  store,
		expiry: expiry,
	}
}

// Load treats missing or unreadable flags as false.
func (that *consentRepository) Load(ctx context.Context) Consent {
	return Consent{
		Accepted: that.readFlag(ctx, storage.AcceptedKey),
		Given:    that.readFlag(ctx, storage.ConsentKey),
	}
}

func (that *consentRepository) Accept(ctx context.Context) error {
	opts := storage.WriteOptions{Expiry: that.expiry}

	for _, key := range []string{storage.AcceptedKey, storage.ConsentKey} {
		if err := that.store.Write(ctx, key, flagTrue, opts); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

func (that *consentRepository) readFlag(ctx context.Context, key string) bool {
	value, ok, err := that.store.Read(ctx, key)
	if err != nil || !ok {
		return false
	}

	return value == flagTrue
}
