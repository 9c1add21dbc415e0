package entity

const (
	SymbolX = "X"
	SymbolO = "O"

	// WinnerDraw marks a full board with no winning line.
	WinnerDraw = "Draw"

	EmptyCell = ""

	BoardSize = 9
)

// WinLines are the eight winning lines, checked in a fixed order:
// rows top to bottom, columns left to right, then both diagonals.
var WinLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 9-cell tic-tac-toe grid. The zero value is an empty board.
type Board [BoardSize]string

// Evaluate returns the winning symbol, WinnerDraw when the board is full
// with no winner, or EmptyCell while the game can continue.
func (that Board) Evaluate() string {
	for _, line := range WinLines {
		a, b, c := that[line[0]], that[line[1]], that[line[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range that {
		if cell == EmptyCell {
			return EmptyCell
		}
	}

	return WinnerDraw
}

// IsEmpty reports whether no symbol has been placed yet.
func (that Board) IsEmpty() bool {
	for _, cell := range that {
		if cell != EmptyCell {
			return false
		}
	}

	return true
}
