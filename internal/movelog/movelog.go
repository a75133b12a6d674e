package movelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository/storage"
)

var ErrInvalidRecord = errors.New("invalid move record")

// MoveLog is an append-only record of applied moves. Nothing reads it back to choose moves.
type MoveLog struct {
	logger *slog.Logger
	store  storage.Storage

	key         string
	options     storage.WriteOptions
	persistence bool

	records []entity.MoveRecord
}

func New(logger *slog.Logger, store storage.Storage, key string, opts storage.WriteOptions) *MoveLog {
	opts.ConsentRequired = true

	return &MoveLog{
		logger:  logger.With("component", "movelog"),
		store:   store,
		key:     key,
		options: opts,
	}
}

// SetPersistence switches writing to storage on or off. Records kept in memory are unaffected.
func (that *MoveLog) SetPersistence(enabled bool) {
	that.persistence = enabled
}

func (that *MoveLog) Persistent() bool {
	return that.persistence
}

// Append adds the record and, when persistence is on, overwrites the stored log with the full sequence.
func (that *MoveLog) Append(ctx context.Context, record entity.MoveRecord) error {
	if !record.IsValid() {
		return fmt.Errorf("%w: %+v", ErrInvalidRecord, record)
	}

	that.records = append(that.records, record)

	if !that.persistence {
		return nil
	}

	return that.save(ctx)
}

// Clear empties the log and overwrites the stored value with an empty sequence.
func (that *MoveLog) Clear(ctx context.Context) error {
	that.records = nil

	return that.save(ctx)
}

// Load replaces the in-memory log with the stored one. Absent or malformed data leaves an empty log.
func (that *MoveLog) Load(ctx context.Context) {
	log := that.logger.With("method", "Load")

	that.records = nil

	value, ok, err := that.store.Read(ctx, that.key)
	if err != nil {
		log.Warn("failed to read move log, starting empty", "error", err)
		return
	}

	if !ok {
		return
	}

	records, err := Decode([]byte(value))
	if err != nil {
		log.Warn("stored move log is malformed, starting empty", "error", err)
		return
	}

	that.records = records
}

// Records returns a copy of the log in insertion order.
func (that *MoveLog) Records() []entity.MoveRecord {
	return slices.Clone(that.records)
}

func (that *MoveLog) Len() int {
	return len(that.records)
}

func (that *MoveLog) save(ctx context.Context) error {
	data, err := Encode(that.records)
	if err != nil {
		return err
	}

	if err = that.store.Write(ctx, that.key, string(data), that.options); err != nil {
		return fmt.Errorf("failed to write move log: %w", err)
	}

	return nil
}

// Encode serializes records as a JSON array, never null.
func Encode(records []entity.MoveRecord) ([]byte, error) {
	if records == nil {
		records = []entity.MoveRecord{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("could not marshal move log: %w", err)
	}

	return data, nil
}

// Decode parses a stored log and rejects any record outside the board or with an unknown mark.
func Decode(data []byte) ([]entity.MoveRecord, error) {
	var records []entity.MoveRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal move log: %w", err)
	}

	for _, record := range records {
		if !record.IsValid() {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidRecord, record)
		}
	}

	return records, nil
}
