package tictactoe

import (
	"errors"
	"slices"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/pkg/random"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// MoveSelector picks the automated player's next cell.
type MoveSelector interface {
	SelectMove(board entity.Board) (int, error)
}

// tiers are tried in order; the first pattern with a matching line decides the move.
var tiers = [][3]entity.Cell{
	// win now
	{entity.BotMark, entity.BotMark, entity.EmptyCell},
	// block
	{entity.HumanMark, entity.HumanMark, entity.EmptyCell},
	// extend
	{entity.BotMark, entity.EmptyCell, entity.EmptyCell},
}

// Bot is a fixed, memoryless heuristic: win, block, extend, then a random empty cell.
type Bot struct {
	random random.Random
}

func NewBot(rnd random.Random) *Bot {
	return &Bot{random: rnd}
}

func (that *Bot) SelectMove(board entity.Board) (int, error) {
	for _, pattern := range tiers {
		if lines := board.LinesMatching(pattern); len(lines) > 0 {
			return lowestEmpty(board, lines[0]), nil
		}
	}

	availableCells := slices.Collect(board.EmptyIndexes())
	if len(availableCells) == 0 {
		return 0, ErrNoAvailableMoves
	}

	return availableCells[that.random.Intn(len(availableCells))], nil
}

// lowestEmpty expects a line matched by a pattern with at least one empty cell.
func lowestEmpty(board entity.Board, line entity.Line) int {
	lowest := -1
	for _, cell := range line {
		if board[cell] == entity.EmptyCell && (lowest == -1 || cell < lowest) {
			lowest = cell
		}
	}

	return lowest
}
