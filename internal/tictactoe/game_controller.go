package tictactoe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

const (
	StateAwaitingHumanMove     = "awaiting_human_move"
	StateAwaitingAutomatedMove = "awaiting_automated_move"
	StateTerminal              = "terminal"
)

type moveRecorder interface {
	Append(ctx context.Context, record entity.MoveRecord) error
	Clear(ctx context.Context) error
}

// GameController runs one game between a human and the bot. It is not safe for concurrent use.
type GameController struct {
	logger   *slog.Logger
	selector MoveSelector
	moveLog  moveRecorder

	board  entity.Board
	status entity.Status
}

func NewGameController(logger *slog.Logger, selector MoveSelector, moveLog moveRecorder) *GameController {
	return &GameController{
		logger:   logger.With("component", "game_controller"),
		selector: selector,
		moveLog:  moveLog,

		board:  entity.NewBoard(),
		status: entity.Status{State: entity.StatusOngoing},
	}
}

func (that *GameController) Board() entity.Board {
	return that.board
}

func (that *GameController) Status() entity.Status {
	return that.status
}

func (that *GameController) State() string {
	switch {
	case that.status.IsFinished():
		return StateTerminal
	case that.board.Turn() == entity.HumanMark:
		return StateAwaitingHumanMove
	default:
		return StateAwaitingAutomatedMove
	}
}

// ApplyHumanMove places x at cell and, if the game goes on, lets the bot answer
// before returning. Rejected moves leave the game untouched and report false.
func (that *GameController) ApplyHumanMove(ctx context.Context, cell int) bool {
	log := that.logger.With("method", "ApplyHumanMove", "cell", cell)

	if state := that.State(); state != StateAwaitingHumanMove {
		log.Debug("move ignored", "state", state)
		return false
	}

	if err := that.apply(ctx, cell, entity.HumanMark); err != nil {
		log.Debug("move ignored", "error", err)
		return false
	}

	if that.State() == StateAwaitingAutomatedMove {
		that.playAutomatedMove(ctx)
	}

	return true
}

// Reset starts a new game and clears the move log.
func (that *GameController) Reset(ctx context.Context) {
	that.board = entity.NewBoard()
	that.status = entity.Status{State: entity.StatusOngoing}

	if err := that.moveLog.Clear(ctx); err != nil {
		that.logger.Warn("failed to clear move log", "method", "Reset", "error", err)
	}
}

func (that *GameController) playAutomatedMove(ctx context.Context) {
	log := that.logger.With("method", "playAutomatedMove")

	cell, err := that.selector.SelectMove(that.board)
	if err != nil {
		log.Error("bot failed to select a move", "error", err)
		return
	}

	// the selector only returns empty cells on an ongoing board at o's turn
	if err = that.apply(ctx, cell, entity.BotMark); err != nil {
		log.Error("bot selected an illegal move", "cell", cell, "error", err)
	}
}

func (that *GameController) apply(ctx context.Context, cell int, mark entity.Cell) error {
	next, err := that.board.ApplyMove(cell, mark)
	if err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	that.board = next
	that.status = next.Status()

	if err = that.moveLog.Append(ctx, entity.MoveRecord{Cell: cell, Mark: mark}); err != nil {
		that.logger.Warn("failed to record move", "cell", cell, "mark", mark, "error", err)
	}

	return nil
}
