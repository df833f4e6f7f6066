package isolation

import (
	"fmt"
	"strings"
)

const (
	DefaultWidth  = 7
	DefaultHeight = 7
)

type Player int

const (
	Player1 Player = iota
	Player2
)

func (p Player) Other() Player {
	return 1 - p
}

func (p Player) String() string {
	if p == Player1 {
		return "player1"
	}
	return "player2"
}

// knightSteps — все смещения хода коня.
var knightSteps = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// Board — состояние партии Isolation. Оба игрока ходят конём, каждая
// посещённая клетка блокируется навсегда. Игрок, которому некуда
// ходить в свой ход, проиграл.
type Board struct {
	width     int
	height    int
	blocked   []bool
	loc       [2]Move
	toMove    Player
	moveCount int
}

func NewBoard(width, height int) *Board {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Board{
		width:   width,
		height:  height,
		blocked: make([]bool, width*height),
		loc:     [2]Move{NoMove, NoMove},
		toMove:  Player1,
	}
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

func (b *Board) ToMove() Player { return b.toMove }

func (b *Board) MoveCount() int { return b.moveCount }

// Location возвращает текущую клетку игрока; NoMove, если он ещё не
// поставлен на доску.
func (b *Board) Location(p Player) Move { return b.loc[p] }

func (b *Board) inBounds(m Move) bool {
	return m.Row >= 0 && m.Row < b.height && m.Col >= 0 && m.Col < b.width
}

func (b *Board) isBlocked(m Move) bool {
	return b.blocked[m.Row*b.width+m.Col]
}

// At сообщает, занята ли клетка (посещалась любым из игроков).
func (b *Board) At(row, col int) bool {
	m := Move{Row: row, Col: col}
	if !b.inBounds(m) {
		return false
	}
	return b.isBlocked(m)
}

// BlankSpaces — количество свободных клеток.
func (b *Board) BlankSpaces() int {
	n := 0
	for _, taken := range b.blocked {
		if !taken {
			n++
		}
	}
	return n
}

// LegalMoves перечисляет ходы игрока p. Пока игрок не поставлен на
// доску, ему доступна любая свободная клетка; дальше — только ходы
// конём на свободные клетки.
func (b *Board) LegalMoves(p Player) []Move {
	from := b.loc[p]
	if from.IsNone() {
		moves := make([]Move, 0, b.BlankSpaces())
		for row := 0; row < b.height; row++ {
			for col := 0; col < b.width; col++ {
				m := Move{Row: row, Col: col}
				if !b.isBlocked(m) {
					moves = append(moves, m)
				}
			}
		}
		return moves
	}
	moves := make([]Move, 0, len(knightSteps))
	for _, step := range knightSteps {
		m := Move{Row: from.Row + step[0], Col: from.Col + step[1]}
		if b.inBounds(m) && !b.isBlocked(m) {
			moves = append(moves, m)
		}
	}
	return moves
}

// LegalMovesToMove — ходы игрока, чья сейчас очередь.
func (b *Board) LegalMovesToMove() []Move {
	return b.LegalMoves(b.toMove)
}

func (b *Board) isLegal(p Player, m Move) bool {
	if !b.inBounds(m) || b.isBlocked(m) {
		return false
	}
	from := b.loc[p]
	if from.IsNone() {
		return true
	}
	dr := from.Row - m.Row
	dc := from.Col - m.Col
	for _, step := range knightSteps {
		if dr == -step[0] && dc == -step[1] {
			return true
		}
	}
	return false
}

// Apply выполняет ход игрока, чья очередь: клетка назначения
// блокируется, ход переходит сопернику.
func (b *Board) Apply(m Move) error {
	if !b.isLegal(b.toMove, m) {
		return fmt.Errorf("illegal move %s for %s", m, b.toMove)
	}
	b.blocked[m.Row*b.width+m.Col] = true
	b.loc[b.toMove] = m
	b.toMove = b.toMove.Other()
	b.moveCount++
	return nil
}

// Forecast возвращает копию доски с применённым ходом; исходная доска
// не меняется.
func (b *Board) Forecast(m Move) (*Board, error) {
	next := b.Copy()
	if err := next.Apply(m); err != nil {
		return nil, err
	}
	return next, nil
}

func (b *Board) Copy() *Board {
	blocked := make([]bool, len(b.blocked))
	copy(blocked, b.blocked)
	return &Board{
		width:     b.width,
		height:    b.height,
		blocked:   blocked,
		loc:       b.loc,
		toMove:    b.toMove,
		moveCount: b.moveCount,
	}
}

// IsLoser: игрок проиграл, если сейчас его ход и ходов нет.
func (b *Board) IsLoser(p Player) bool {
	return b.toMove == p && len(b.LegalMoves(p)) == 0
}

func (b *Board) IsWinner(p Player) bool {
	return b.IsLoser(p.Other())
}

// GameOver — у игрока на ходу не осталось ходов.
func (b *Board) GameOver() bool {
	return len(b.LegalMovesToMove()) == 0
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			m := Move{Row: row, Col: col}
			switch {
			case b.loc[Player1] == m:
				sb.WriteString(" 1 ")
			case b.loc[Player2] == m:
				sb.WriteString(" 2 ")
			case b.isBlocked(m):
				sb.WriteString(" x ")
			default:
				sb.WriteString(" - ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
