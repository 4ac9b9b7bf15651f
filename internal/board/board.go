package board

import (
	"errors"
	"fmt"
)

const (
	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""

	Size = 9
)

var (
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCellOccupied = errors.New("cell is already occupied")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board is a 3x3 grid in row-major order. Cells hold MarkX, MarkO or EmptyCell.
type Board [Size]string

// Outcome is the result of inspecting a board: nobody won yet, one mark
// completed a line, or the board is full without a winner.
type Outcome struct {
	Winner string
	Line   [3]int
	Draw   bool
}

func (that Outcome) IsTerminal() bool {
	return that.Draw || that.Winner != EmptyCell
}

// New returns an empty board.
func New() Board {
	return Board{}
}

// ApplyMove places mark at cell and returns the resulting board.
// The receiver is passed by value and never mutated.
func ApplyMove(b Board, cell int, mark string) (Board, error) {
	if cell < 0 || cell >= Size {
		return b, fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if b[cell] != EmptyCell {
		return b, fmt.Errorf("%w: cell %d", ErrCellOccupied, cell)
	}

	b[cell] = mark

	return b, nil
}

// DetectOutcome checks the 8 canonical lines for a winner and falls back
// to a draw check when no empty cell remains.
func DetectOutcome(b Board) Outcome {
	for _, combo := range WinCombos {
		a, mid, c := b[combo[0]], b[combo[1]], b[combo[2]]
		if a != EmptyCell && a == mid && mid == c {
			return Outcome{Winner: a, Line: combo}
		}
	}

	for _, cell := range b {
		if cell == EmptyCell {
			return Outcome{}
		}
	}

	return Outcome{Draw: true}
}

// EmptyCells lists the indexes of all unoccupied cells.
func EmptyCells(b Board) []int {
	cells := make([]int, 0, Size)
	for i, cell := range b {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// ToggleMark returns the opposing mark.
func ToggleMark(mark string) string {
	if mark == MarkX {
		return MarkO
	}

	return MarkX
}
