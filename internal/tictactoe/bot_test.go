package tictactoe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

type mockRandom struct {
	mock.Mock
}

func (that *mockRandom) Intn(n int) int {
	return that.Called(n).Int(0)
}

func TestBot_SelectMove(t *testing.T) {
	t.Run("Takes the win", func(t *testing.T) {
		// Given: o can complete the top row and x threatens the middle row
		board := entity.Board{o, o, e, x, x, e, e, e, e}

		// When: the bot selects a move
		cell, err := NewBot(&mockRandom{}).SelectMove(board)

		// Then: winning beats blocking
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Blocks when no win is available", func(t *testing.T) {
		board := entity.Board{x, x, e, o, e, e, e, e, e}

		cell, err := NewBot(&mockRandom{}).SelectMove(board)

		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Extends on the first line in catalog order", func(t *testing.T) {
		// Given: o in the corner shared by the bottom row, right column and main diagonal
		board := entity.Board{e, e, e, e, x, e, e, e, o}

		cell, err := NewBot(&mockRandom{}).SelectMove(board)

		// Then: the bottom row comes first and its lowest empty cell is chosen
		require.NoError(t, err)
		assert.Equal(t, 6, cell)
	})

	t.Run("Falls back to a random empty cell", func(t *testing.T) {
		// Given: only the centre is taken
		board := entity.Board{e, e, e, e, x, e, e, e, e}

		rnd := &mockRandom{}
		rnd.On("Intn", 8).Return(3).Once()

		// When: the bot selects a move
		cell, err := NewBot(rnd).SelectMove(board)

		// Then: the fourth empty index is picked
		require.NoError(t, err)
		assert.Equal(t, 3, cell)
		rnd.AssertExpectations(t)
	})

	t.Run("Error on full board", func(t *testing.T) {
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		_, err := NewBot(&mockRandom{}).SelectMove(board)

		require.ErrorIs(t, err, ErrNoAvailableMoves)
	})
}

func TestBot_SelectMove_EveryLine(t *testing.T) {
	bot := NewBot(&mockRandom{})

	for _, line := range entity.Lines {
		for gap := range line {
			t.Run(fmt.Sprintf("win %v gap %d", line, gap), func(t *testing.T) {
				// Given: two o's on the line and the gap empty
				var board entity.Board
				for i, cell := range line {
					if i != gap {
						board[cell] = o
					}
				}

				cell, err := bot.SelectMove(board)

				require.NoError(t, err)
				assert.Equal(t, line[gap], cell)
			})

			t.Run(fmt.Sprintf("block %v gap %d", line, gap), func(t *testing.T) {
				// Given: two x's on the line, the gap empty and no o on the board
				var board entity.Board
				for i, cell := range line {
					if i != gap {
						board[cell] = x
					}
				}

				cell, err := bot.SelectMove(board)

				require.NoError(t, err)
				assert.Equal(t, line[gap], cell)
			})
		}
	}
}
