package agent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"team_iso/internal/domain/isolation"
)

// p1 в центре (8 ходов), p2 в углу (2 хода)
func centerVsCorner(t *testing.T) *isolation.Board {
	t.Helper()
	b := isolation.NewBoard(7, 7)
	require.NoError(t, b.Apply(isolation.Move{Row: 3, Col: 3}))
	require.NoError(t, b.Apply(isolation.Move{Row: 0, Col: 0}))
	return b
}

func TestImprovedScore(t *testing.T) {
	b := centerVsCorner(t)
	assert.Equal(t, 6.0, ImprovedScore(b, isolation.Player1))
	assert.Equal(t, -6.0, ImprovedScore(b, isolation.Player2))
}

func TestOpenMoveScore(t *testing.T) {
	b := centerVsCorner(t)
	assert.Equal(t, 8.0, OpenMoveScore(b, isolation.Player1))
	assert.Equal(t, 2.0, OpenMoveScore(b, isolation.Player2))
}

func TestNullScoreIsFlatOffTerminals(t *testing.T) {
	b := centerVsCorner(t)
	assert.Equal(t, 0.0, NullScore(b, isolation.Player1))
	assert.Equal(t, 0.0, NullScore(b, isolation.Player2))
}

func TestRatioOfMoves(t *testing.T) {
	b := centerVsCorner(t)
	assert.Equal(t, 4.0, RatioOfMoves(b, isolation.Player1))
	assert.Equal(t, 0.25, RatioOfMoves(b, isolation.Player2))
}

func TestMoveDiffWithSpaces(t *testing.T) {
	b := centerVsCorner(t)
	// 8 * (49/47) - 2*2
	want := 8*(49.0/47.0) - 4
	assert.InDelta(t, want, MoveDiffWithSpaces(b, isolation.Player1), 1e-9)
}

func TestMoveDiffFromCenter(t *testing.T) {
	b := centerVsCorner(t)
	// все ходы обоих игроков на расстоянии sqrt(5) от центра
	w := 1 - math.Sqrt(5)/7
	want := 8*w - 2*(2*w)
	assert.InDelta(t, want, MoveDiffFromCenter(b, isolation.Player1), 1e-9)
}

func TestMoveDiffFromCenterRectangular(t *testing.T) {
	// доска 5x3: центр (2,1) сопоставляется с (row, col)
	b := isolation.NewBoard(5, 3)
	require.NoError(t, b.Apply(isolation.Move{Row: 0, Col: 0})) // p1
	require.NoError(t, b.Apply(isolation.Move{Row: 2, Col: 4})) // p2

	// p1: (1,2) и (2,1); p2: (1,2) и (0,3)
	own := (1 - math.Sqrt2/5) + 1
	opp := (1 - math.Sqrt2/5) + (1 - 2*math.Sqrt2/5)
	want := own - 2*opp
	assert.InDelta(t, want, MoveDiffFromCenter(b, isolation.Player1), 1e-9)
	assert.InDelta(t, math.Sqrt2-2, want, 1e-9)
}

func TestScoreTerminals(t *testing.T) {
	// p1 заперт в углу (0,0): обе выходные клетки заняты
	b := isolation.NewBoard(7, 7)
	require.NoError(t, b.Apply(isolation.Move{Row: 1, Col: 2})) // p1
	require.NoError(t, b.Apply(isolation.Move{Row: 2, Col: 1})) // p2
	require.NoError(t, b.Apply(isolation.Move{Row: 0, Col: 0})) // p1

	for name, fn := range map[string]ScoreFunc{
		"null": NullScore, "open": OpenMoveScore, "improved": ImprovedScore,
		"ratio": RatioOfMoves, "spaces": MoveDiffWithSpaces, "center": MoveDiffFromCenter,
	} {
		assert.Equal(t, math.Inf(-1), fn(b, isolation.Player1), name)
		assert.Equal(t, math.Inf(1), fn(b, isolation.Player2), name)
	}
}

func TestScoreBothStuckCountsAsWin(t *testing.T) {
	// доска 3x2, оба игрока без ходов: сначала проверяется соперник,
	// поэтому позиция считается выигранной для обеих сторон
	b := isolation.NewBoard(3, 2)
	require.NoError(t, b.Apply(isolation.Move{Row: 0, Col: 0}))
	require.NoError(t, b.Apply(isolation.Move{Row: 1, Col: 0}))
	require.NoError(t, b.Apply(isolation.Move{Row: 1, Col: 2}))
	require.NoError(t, b.Apply(isolation.Move{Row: 0, Col: 2}))

	assert.Equal(t, math.Inf(1), ImprovedScore(b, isolation.Player1))
	assert.Equal(t, math.Inf(1), ImprovedScore(b, isolation.Player2))
}

func TestScoreByName(t *testing.T) {
	for _, name := range []string{"null", "open", "improved", "ratio", "spaces", "center", ""} {
		fn, ok := ScoreByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, fn, name)
	}
	_, ok := ScoreByName("bogus")
	assert.False(t, ok)
}
