package service

import (
	"errors"
	"math/rand"

	"github.com/gridstake/tictactoe-backend/internal/board"
)

var ErrNoAvailableMoves = errors.New("no available moves")

const centerCell = 4

var cornerCells = [4]int{0, 2, 6, 8}

type BotService interface {
	ChooseMove(b board.Board, mark string) (int, error)
}

type botService struct {
	skill float64
}

// NewBotService configures the bot with its skill probability in [0, 1].
// With that probability the bot plays the heuristic move, otherwise it plays
// uniformly at random among the empty cells.
func NewBotService(skill float64) BotService {
	return &botService{
		skill: skill,
	}
}

func (that *botService) ChooseMove(b board.Board, mark string) (int, error) {
	available := board.EmptyCells(b)
	if len(available) == 0 {
		return 0, ErrNoAvailableMoves
	}

	if rand.Float64() < that.skill { //nolint: gosec // it's ok
		return that.heuristicMove(b, mark, available), nil
	}

	return available[rand.Intn(len(available))], nil //nolint: gosec // it's ok
}

// heuristicMove picks by fixed priority: win now, block the opponent's
// immediate win, take the center, take a corner, take anything left.
func (that *botService) heuristicMove(b board.Board, mark string, available []int) int {
	if cell, ok := findWinningCell(b, mark); ok {
		return cell
	}

	if cell, ok := findWinningCell(b, board.ToggleMark(mark)); ok {
		return cell
	}

	if b[centerCell] == board.EmptyCell {
		return centerCell
	}

	for _, cell := range cornerCells {
		if b[cell] == board.EmptyCell {
			return cell
		}
	}

	return available[0]
}

func findWinningCell(b board.Board, mark string) (int, bool) {
	for _, cell := range board.EmptyCells(b) {
		candidate, err := board.ApplyMove(b, cell, mark)
		if err != nil {
			continue
		}

		if outcome := board.DetectOutcome(candidate); outcome.Winner == mark {
			return cell, true
		}
	}

	return 0, false
}
