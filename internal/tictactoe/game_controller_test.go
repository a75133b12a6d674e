package tictactoe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/movelog"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository/storage"
)

var errBroken = errors.New("broken")

type mockSelector struct {
	mock.Mock
}

func (that *mockSelector) SelectMove(board entity.Board) (int, error) {
	args := that.Called(board)
	return args.Int(0), args.Error(1)
}

func newController(t *testing.T, selector MoveSelector) (*GameController, *movelog.MoveLog) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := storage.NewMemoryStore()
	require.NoError(t, store.Write(context.Background(), storage.ConsentKey, "true", storage.WriteOptions{}))

	moveLog := movelog.New(logger, store, "learning-data", storage.WriteOptions{})
	moveLog.SetPersistence(true)

	return NewGameController(logger, selector, moveLog), moveLog
}

func TestNewGameController(t *testing.T) {
	controller, _ := newController(t, &mockSelector{})

	assert.Equal(t, entity.Board{}, controller.Board())
	assert.Equal(t, entity.Status{State: entity.StatusOngoing}, controller.Status())
	assert.Equal(t, StateAwaitingHumanMove, controller.State())
}

func TestGameController_ApplyHumanMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Bot answers immediately", func(t *testing.T) {
		// Given: a new game and a bot that will answer in the corner
		selector := &mockSelector{}
		selector.On("SelectMove", entity.Board{e, e, e, e, x, e, e, e, e}).Return(0, nil).Once()
		controller, moveLog := newController(t, selector)

		// When: the human plays the centre
		accepted := controller.ApplyHumanMove(ctx, 4)

		// Then: both moves are on the board and it is the human's turn again
		require.True(t, accepted)
		assert.Equal(t, entity.Board{o, e, e, e, x, e, e, e, e}, controller.Board())
		assert.True(t, controller.Status().IsOngoing())
		assert.Equal(t, StateAwaitingHumanMove, controller.State())
		assert.Equal(t, []entity.MoveRecord{
			{Cell: 4, Mark: entity.PlayerX},
			{Cell: 0, Mark: entity.PlayerO},
		}, moveLog.Records())
		selector.AssertExpectations(t)
	})

	t.Run("Occupied cell is ignored", func(t *testing.T) {
		selector := &mockSelector{}
		selector.On("SelectMove", mock.Anything).Return(0, nil).Once()
		controller, moveLog := newController(t, selector)
		require.True(t, controller.ApplyHumanMove(ctx, 4))

		before := controller.Board()

		// When: the human clicks the bot's cell and their own
		assert.False(t, controller.ApplyHumanMove(ctx, 0))
		assert.False(t, controller.ApplyHumanMove(ctx, 4))

		// Then: nothing changed
		assert.Equal(t, before, controller.Board())
		assert.Equal(t, 2, moveLog.Len())
		selector.AssertExpectations(t)
	})

	t.Run("Out of range cell is ignored", func(t *testing.T) {
		controller, _ := newController(t, &mockSelector{})

		assert.False(t, controller.ApplyHumanMove(ctx, 9))
		assert.False(t, controller.ApplyHumanMove(ctx, -1))
		assert.Equal(t, entity.Board{}, controller.Board())
	})

	t.Run("Bot completes a line and wins", func(t *testing.T) {
		// Given: o threatens the top row, the human ignores it
		controller, _ := newController(t, NewBot(&mockRandom{}))
		controller.board = entity.Board{o, o, e, x, e, e, x, e, e}

		// When: the human plays elsewhere
		require.True(t, controller.ApplyHumanMove(ctx, 8))

		// Then: the bot takes cell 2 and the game is over
		assert.Equal(t, o, controller.Board()[2])
		assert.Equal(t, entity.Status{State: entity.StatusWon, Winner: entity.PlayerO}, controller.Status())
		assert.Equal(t, StateTerminal, controller.State())
	})

	t.Run("Human win stops the bot", func(t *testing.T) {
		selector := &mockSelector{}
		controller, _ := newController(t, selector)
		controller.board = entity.Board{x, x, e, o, o, e, e, e, e}

		require.True(t, controller.ApplyHumanMove(ctx, 2))

		assert.Equal(t, entity.Status{State: entity.StatusWon, Winner: entity.PlayerX}, controller.Status())
		selector.AssertNotCalled(t, "SelectMove", mock.Anything)
	})

	t.Run("Moves after the game ends are ignored", func(t *testing.T) {
		controller, moveLog := newController(t, &mockSelector{})
		controller.board = entity.Board{x, x, e, o, o, e, e, e, e}
		require.True(t, controller.ApplyHumanMove(ctx, 2))

		assert.False(t, controller.ApplyHumanMove(ctx, 5))
		assert.Equal(t, entity.Board{x, x, x, o, o, e, e, e, e}, controller.Board())
		assert.Equal(t, 1, moveLog.Len())
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a bot scripted to play 4, 1, 5, 6
		selector := &mockSelector{}
		for _, cell := range []int{4, 1, 5, 6} {
			selector.On("SelectMove", mock.Anything).Return(cell, nil).Once()
		}
		controller, moveLog := newController(t, selector)

		// When: the human plays 0, 2, 7, 3, 8
		for _, cell := range []int{0, 2, 7, 3, 8} {
			require.True(t, controller.ApplyHumanMove(ctx, cell))
		}

		// Then: the board is full and nobody won
		assert.Equal(t, entity.Board{x, o, x, x, o, o, o, x, x}, controller.Board())
		assert.Equal(t, entity.Status{State: entity.StatusDraw}, controller.Status())
		assert.Equal(t, StateTerminal, controller.State())
		assert.Equal(t, 9, moveLog.Len())
		selector.AssertExpectations(t)
	})

	t.Run("Bot failure leaves the game waiting on the bot", func(t *testing.T) {
		selector := &mockSelector{}
		selector.On("SelectMove", mock.Anything).Return(0, errBroken).Once()
		controller, _ := newController(t, selector)

		require.True(t, controller.ApplyHumanMove(ctx, 4))

		assert.Equal(t, StateAwaitingAutomatedMove, controller.State())
		assert.False(t, controller.ApplyHumanMove(ctx, 0))
	})
}

func TestGameController_Reset(t *testing.T) {
	ctx := context.Background()

	// Given: a finished game with a move log
	controller, moveLog := newController(t, &mockSelector{})
	controller.board = entity.Board{x, x, e, o, o, e, e, e, e}
	require.True(t, controller.ApplyHumanMove(ctx, 2))
	require.Equal(t, StateTerminal, controller.State())

	// When: resetting
	controller.Reset(ctx)

	// Then: the board is empty, the game is ongoing and the log is cleared
	assert.Equal(t, entity.Board{}, controller.Board())
	assert.Equal(t, entity.Status{State: entity.StatusOngoing}, controller.Status())
	assert.Equal(t, StateAwaitingHumanMove, controller.State())
	assert.Zero(t, moveLog.Len())
}
