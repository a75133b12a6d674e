package entity

import (
	"encoding/json"
	"fmt"
	"iter"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

// Cell is the content of a single board square.
type Cell string

const (
	EmptyCell Cell = ""
	PlayerX   Cell = "x"
	PlayerO   Cell = "o"

	// AnyCell is a wildcard that is only meaningful inside a match pattern.
	AnyCell Cell = "*"
)

const (
	// HumanMark is always placed by the human player, who moves first.
	HumanMark = PlayerX
	// BotMark is always placed by the automated player.
	BotMark = PlayerO
)

const BoardSize = 9

// Line is a triple of board indexes that wins when uniformly occupied.
type Line [3]int

// Lines holds every winning triple: rows, then columns, then diagonals.
var Lines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid in row-major order. The zero value is an empty board.
type Board [BoardSize]Cell

func NewBoard() Board {
	return Board{}
}

// ApplyMove returns a copy of the board with mark placed at cell. The receiver is never modified.
func (that Board) ApplyMove(cell int, mark Cell) (Board, error) {
	if cell < 0 || cell >= BoardSize {
		return that, fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, apperror.ErrInvalidCell, cell)
	}

	if that.Status().IsFinished() {
		return that, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	if that[cell] != EmptyCell {
		return that, fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, apperror.ErrCellOccupied, cell)
	}

	if mark != that.Turn() {
		return that, fmt.Errorf("%w: %w: mark %q", apperror.ErrInvalidMove, apperror.ErrNotYourTurn, mark)
	}

	next := that
	next[cell] = mark

	return next, nil
}

// EmptyIndexes yields the indexes of empty cells in ascending order.
func (that Board) EmptyIndexes() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, cell := range that {
			if cell == EmptyCell && !yield(i) {
				return
			}
		}
	}
}

func (that Board) Filled() int {
	filled := 0
	for _, cell := range that {
		if cell != EmptyCell {
			filled++
		}
	}

	return filled
}

// Turn derives whose move it is from the number of placed marks.
func (that Board) Turn() Cell {
	if that.Filled()%2 == 0 {
		return HumanMark
	}

	return BotMark
}

// LinesMatching returns, in catalog order, every line whose three values equal
// the pattern as a multiset. AnyCell in the pattern absorbs any one value.
func (that Board) LinesMatching(pattern [3]Cell) []Line {
	var matched []Line
	for _, line := range Lines {
		if that.lineMatches(line, pattern) {
			matched = append(matched, line)
		}
	}

	return matched
}

func (that Board) lineMatches(line Line, pattern [3]Cell) bool {
	values := [3]Cell{that[line[0]], that[line[1]], that[line[2]]}
	var used [3]bool

	for _, want := range pattern {
		if want == AnyCell {
			continue
		}

		found := false
		for i, value := range values {
			if !used[i] && value == want {
				used[i] = true
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

// Status evaluates the board. A board where both marks own a line cannot arise
// from alternating play; in that case x is reported.
func (that Board) Status() Status {
	switch {
	case len(that.LinesMatching([3]Cell{PlayerX, PlayerX, PlayerX})) > 0:
		return Status{State: StatusWon, Winner: PlayerX}
	case len(that.LinesMatching([3]Cell{PlayerO, PlayerO, PlayerO})) > 0:
		return Status{State: StatusWon, Winner: PlayerO}
	case that.Filled() == BoardSize:
		return Status{State: StatusDraw}
	default:
		return Status{State: StatusOngoing}
	}
}

// MarshalJSON encodes empty cells as null.
func (that Board) MarshalJSON() ([]byte, error) {
	cells := make([]*Cell, BoardSize)
	for i := range that {
		if that[i] != EmptyCell {
			cell := that[i]
			cells[i] = &cell
		}
	}

	return json.Marshal(cells)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var cells []*Cell
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	if len(cells) != BoardSize {
		return fmt.Errorf("%w: board has %d cells", apperror.ErrInvalidCell, len(cells))
	}

	var board Board
	for i, cell := range cells {
		if cell == nil {
			continue
		}

		if *cell != PlayerX && *cell != PlayerO {
			return fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidCell, *cell)
		}

		board[i] = *cell
	}

	*that = board

	return nil
}
