package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/movelog"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

// StoreFactory returns the storage scoped to one session.
type StoreFactory func(sessionID string) storage.Storage

type Options struct {
	MoveLogKey    string
	MoveLogExpiry time.Duration
	ConsentExpiry time.Duration

	// IdleTimeout of zero keeps sessions in memory until the process exits.
	IdleTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Snapshot is everything a client needs to draw the game.
type Snapshot struct {
	SessionID         string              `json:"session_id"`
	Board             entity.Board        `json:"board"`
	Status            string              `json:"status"`
	Winner            *entity.Cell        `json:"winner"`
	Turn              entity.Cell         `json:"turn,omitempty"`
	State             string              `json:"state"`
	Moves             []entity.MoveRecord `json:"moves"`
	Consent           repository.Consent  `json:"consent"`
	ShowConsentBanner bool                `json:"show_consent_banner"`
}

type session struct {
	mu sync.Mutex

	id         string
	lastUsed   time.Time
	controller *tictactoe.GameController
	moveLog    *movelog.MoveLog
	consent    repository.ConsentRepository
	consentNow repository.Consent
}

// GameManager keeps one game per browser session.
type GameManager struct {
	logger   *slog.Logger
	newStore StoreFactory
	selector tictactoe.MoveSelector
	options  Options

	mu       sync.Mutex
	sessions map[string]*session
}

func NewGameManager(logger *slog.Logger, newStore StoreFactory, selector tictactoe.MoveSelector, options Options) *GameManager {
	if options.Now == nil {
		options.Now = time.Now
	}

	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		newStore: newStore,
		selector: selector,
		options:  options,

		sessions: make(map[string]*session),
	}
}

// GetOrCreateSession starts a new session when id is empty. A known id returns
// the live game; an unknown but well-formed id is restored from storage with a
// fresh board. Evicted sessions come back the same way.
func (that *GameManager) GetOrCreateSession(ctx context.Context, id string) (*Snapshot, error) {
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	sess, err := that.getSession(id)
	if err != nil {
		// storage reads happen outside the manager lock
		opened := that.openSession(ctx, id)

		that.mu.Lock()
		if sess = that.sessions[id]; sess == nil {
			sess = opened
			sess.lastUsed = that.options.Now()
			that.sessions[id] = sess
		}
		that.mu.Unlock()
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.snapshot(), nil
}

func (that *GameManager) Snapshot(_ context.Context, id string) (*Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.snapshot(), nil
}

// MakeTurn applies the human move and the bot's answer. Rejected moves return the unchanged snapshot.
func (that *GameManager) MakeTurn(ctx context.Context, id string, cell int) (*Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.controller.ApplyHumanMove(ctx, cell)

	return sess.snapshot(), nil
}

func (that *GameManager) Reset(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.controller.Reset(ctx)

	return sess.snapshot(), nil
}

// AcceptConsent stores both consent flags and turns on move log persistence.
func (that *GameManager) AcceptConsent(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err = sess.consent.Accept(ctx); err != nil {
		return nil, fmt.Errorf("failed to accept consent: %w", err)
	}

	sess.consentNow = repository.Consent{Accepted: true, Given: true}
	sess.moveLog.SetPersistence(true)

	return sess.snapshot(), nil
}

func (that *GameManager) openSession(ctx context.Context, id string) *session {
	log := that.logger.With("method", "openSession", "session", id)

	store := that.newStore(id)

	consent := repository.NewConsentRepository(store, that.options.ConsentExpiry)
	consentNow := consent.Load(ctx)

	moveLog := movelog.New(that.logger, store, that.options.MoveLogKey, storage.WriteOptions{
		Expiry: that.options.MoveLogExpiry,
	})
	moveLog.SetPersistence(consentNow.Given)
	moveLog.Load(ctx)

	log.Info("session opened", "consent", consentNow.Given, "moves", moveLog.Len())

	return &session{
		id:         id,
		controller: tictactoe.NewGameController(that.logger.With("session", id), that.selector, moveLog),
		moveLog:    moveLog,
		consent:    consent,
		consentNow: consentNow,
	}
}

// getSession looks up a live session and marks it as used.
func (that *GameManager) getSession(id string) (*session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	sess.lastUsed = that.options.Now()

	return sess, nil
}

// EvictIdle drops sessions unused for longer than IdleTimeout and returns how many went.
// Their consent and move log stay in storage.
func (that *GameManager) EvictIdle() int {
	if that.options.IdleTimeout <= 0 {
		return 0
	}

	cutoff := that.options.Now().Add(-that.options.IdleTimeout)

	that.mu.Lock()
	defer that.mu.Unlock()

	evicted := 0
	for id, sess := range that.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(that.sessions, id)
			evicted++
		}
	}

	return evicted
}

// RunEviction calls EvictIdle every interval until ctx is canceled.
func (that *GameManager) RunEviction(ctx context.Context, interval time.Duration) {
	log := that.logger.With("method", "RunEviction")

	if that.options.IdleTimeout <= 0 || interval <= 0 {
		log.Info("session eviction disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := that.EvictIdle(); evicted > 0 {
				log.Debug("evicted idle sessions", "count", evicted)
			}
		}
	}
}

// Len returns the number of sessions held in memory.
func (that *GameManager) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}

func (that *session) snapshot() *Snapshot {
	status := that.controller.Status()

	snapshot := &Snapshot{
		SessionID:         that.id,
		Board:             that.controller.Board(),
		Status:            status.State,
		State:             that.controller.State(),
		Moves:             that.moveLog.Records(),
		Consent:           that.consentNow,
		ShowConsentBanner: !that.consentNow.Given && !that.consentNow.Accepted,
	}

	if status.IsWon() {
		winner := status.Winner
		snapshot.Winner = &winner
	}

	if !status.IsFinished() {
		snapshot.Turn = snapshot.Board.Turn()
	}

	if snapshot.Moves == nil {
		snapshot.Moves = []entity.MoveRecord{}
	}

	return snapshot
}
