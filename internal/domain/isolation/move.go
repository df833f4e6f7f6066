package isolation

import "fmt"

// Move задаёт клетку (row, col) на доске.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoMove возвращается, когда ходить некуда.
var NoMove = Move{Row: -1, Col: -1}

func (m Move) IsNone() bool {
	return m == NoMove
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
