package isolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard(7, 7)

	assert.Equal(t, 7, b.Width())
	assert.Equal(t, 7, b.Height())
	assert.Equal(t, 49, b.BlankSpaces())
	assert.Equal(t, Player1, b.ToMove())
	assert.True(t, b.Location(Player1).IsNone())
	assert.True(t, b.Location(Player2).IsNone())
}

func TestFirstMoveAnywhere(t *testing.T) {
	b := NewBoard(7, 7)

	moves := b.LegalMovesToMove()
	assert.Len(t, moves, 49)

	require.NoError(t, b.Apply(Move{Row: 3, Col: 3}))
	assert.Equal(t, Player2, b.ToMove())
	assert.Equal(t, 48, b.BlankSpaces())

	// второй игрок тоже встаёт куда угодно, кроме занятой клетки
	moves = b.LegalMovesToMove()
	assert.Len(t, moves, 48)
	assert.NotContains(t, moves, Move{Row: 3, Col: 3})
}

func TestKnightMovesFromCenter(t *testing.T) {
	b := NewBoard(7, 7)
	require.NoError(t, b.Apply(Move{Row: 3, Col: 3}))
	require.NoError(t, b.Apply(Move{Row: 0, Col: 0}))

	moves := b.LegalMoves(Player1)
	assert.Len(t, moves, 8)
	assert.Contains(t, moves, Move{Row: 1, Col: 2})
	assert.Contains(t, moves, Move{Row: 5, Col: 4})
	assert.NotContains(t, moves, Move{Row: 3, Col: 4})
}

func TestKnightMovesClippedAtCorner(t *testing.T) {
	b := NewBoard(7, 7)
	require.NoError(t, b.Apply(Move{Row: 0, Col: 0}))

	moves := b.LegalMoves(Player1)
	assert.ElementsMatch(t, []Move{{Row: 1, Col: 2}, {Row: 2, Col: 1}}, moves)
}

func TestApplyRejectsIllegalMove(t *testing.T) {
	b := NewBoard(7, 7)
	require.NoError(t, b.Apply(Move{Row: 3, Col: 3}))
	require.NoError(t, b.Apply(Move{Row: 3, Col: 4}))

	// не ход конём
	err := b.Apply(Move{Row: 3, Col: 5})
	assert.Error(t, err)

	// занятая клетка недоступна даже конём
	require.NoError(t, b.Apply(Move{Row: 1, Col: 2}))
	err = b.Apply(Move{Row: 3, Col: 3})
	assert.Error(t, err)
}

func TestVisitedCellsStayBlocked(t *testing.T) {
	b := NewBoard(7, 7)
	require.NoError(t, b.Apply(Move{Row: 3, Col: 3}))
	require.NoError(t, b.Apply(Move{Row: 0, Col: 0}))
	require.NoError(t, b.Apply(Move{Row: 1, Col: 2}))

	assert.True(t, b.At(3, 3))
	assert.True(t, b.At(0, 0))
	assert.True(t, b.At(1, 2))
	assert.Equal(t, 46, b.BlankSpaces())
}

func TestForecastDoesNotAliasParent(t *testing.T) {
	b := NewBoard(7, 7)
	require.NoError(t, b.Apply(Move{Row: 3, Col: 3}))

	next, err := b.Forecast(Move{Row: 0, Col: 0})
	require.NoError(t, err)

	assert.Equal(t, 47, next.BlankSpaces())
	assert.Equal(t, 48, b.BlankSpaces())
	assert.Equal(t, Player2, b.ToMove())
	assert.Equal(t, Player1, next.ToMove())
	assert.True(t, b.Location(Player2).IsNone())
}

func TestLoserAndWinner(t *testing.T) {
	// на доске 3x2 каждый угол связан конём ровно с одним
	// противоположным углом, партия кончается быстро
	b := NewBoard(3, 2)
	require.NoError(t, b.Apply(Move{Row: 0, Col: 0})) // p1
	require.NoError(t, b.Apply(Move{Row: 1, Col: 0})) // p2
	require.NoError(t, b.Apply(Move{Row: 1, Col: 2})) // p1
	require.NoError(t, b.Apply(Move{Row: 0, Col: 2})) // p2
	// p1 из (1,2) может только на (0,0), а она занята
	assert.True(t, b.GameOver())
	assert.True(t, b.IsLoser(Player1))
	assert.True(t, b.IsWinner(Player2))
	assert.False(t, b.IsLoser(Player2))
}
