package tournament

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"team_iso/internal/agent"
	"team_iso/internal/domain/isolation"
)

// firstMovePlayer всегда делает первый доступный ход — детерминирован.
type firstMovePlayer struct{}

func (firstMovePlayer) Name() string { return "first" }

func (firstMovePlayer) ChooseMove(b *isolation.Board, _ func() time.Duration) isolation.Move {
	legal := b.LegalMovesToMove()
	if len(legal) == 0 {
		return isolation.NoMove
	}
	return legal[0]
}

// forfeitPlayer сдаётся сразу.
type forfeitPlayer struct{}

func (forfeitPlayer) Name() string { return "forfeit" }

func (forfeitPlayer) ChooseMove(*isolation.Board, func() time.Duration) isolation.Move {
	return isolation.NoMove
}

func TestPlayGameFinishes(t *testing.T) {
	b := isolation.NewBoard(5, 5)
	winner := PlayGame(b, [2]agent.Player{firstMovePlayer{}, firstMovePlayer{}}, 50*time.Millisecond)
	assert.True(t, winner == isolation.Player1 || winner == isolation.Player2)
	assert.True(t, b.GameOver())
}

func TestPlayGameForfeitLoses(t *testing.T) {
	b := isolation.NewBoard(5, 5)
	winner := PlayGame(b, [2]agent.Player{forfeitPlayer{}, firstMovePlayer{}}, 50*time.Millisecond)
	assert.Equal(t, isolation.Player2, winner)
}

func TestSeriesPlaysTwoGamesPerMatch(t *testing.T) {
	cfg := Config{NumMatches: 3, Width: 5, Height: 5, MoveTime: 50 * time.Millisecond}
	rng := rand.New(rand.NewSource(1))

	winsA, winsB := Series(firstMovePlayer{}, forfeitPlayer{}, cfg, rng)
	assert.Equal(t, 6, winsA+winsB)
	// сдающийся соперник не выигрывает ни одной партии
	assert.Equal(t, 6, winsA)
	assert.Equal(t, 0, winsB)
}

func TestSeriesFairPairIsSymmetric(t *testing.T) {
	// два одинаковых детерминированных игрока: в зеркальной паре из
	// одного и того же начала побеждает одно и то же кресло, так что
	// каждая пара партий делится ровно пополам
	cfg := Config{NumMatches: 4, Width: 5, Height: 5, MoveTime: 50 * time.Millisecond}
	rng := rand.New(rand.NewSource(7))

	winsA, winsB := Series(firstMovePlayer{}, firstMovePlayer{}, cfg, rng)
	assert.Equal(t, winsA, winsB)
	assert.Equal(t, 8, winsA+winsB)
}

func TestTournamentRunOrdersReports(t *testing.T) {
	cfg := Config{NumMatches: 1, Width: 5, Height: 5, MoveTime: 50 * time.Millisecond, Workers: 4}
	tour := New(cfg, zap.NewNop().Sugar())

	agents := []Entrant{
		{Name: "A", Player: firstMovePlayer{}},
		{Name: "B", Player: firstMovePlayer{}},
	}
	opponents := []Entrant{
		{Name: "Forfeit", Player: forfeitPlayer{}},
		{Name: "First", Player: firstMovePlayer{}},
	}

	reports := tour.Run(agents, opponents)
	require.Len(t, reports, 2)
	assert.Equal(t, "A", reports[0].Agent)
	assert.Equal(t, "B", reports[1].Agent)

	for _, rep := range reports {
		require.Len(t, rep.Results, 2)
		assert.Equal(t, "Forfeit", rep.Results[0].Opponent)
		assert.Equal(t, "First", rep.Results[1].Opponent)
		assert.Equal(t, 4, rep.Games)
		// против сдающегося выигрываются обе партии
		assert.Equal(t, 2, rep.Results[0].Wins)
	}
}

func TestWinRate(t *testing.T) {
	rep := Report{Wins: 19, Games: 20}
	assert.InDelta(t, 95.0, rep.WinRate(), 1e-9)
	assert.Equal(t, 0.0, Report{}.WinRate())
}

func TestRosters(t *testing.T) {
	opponents := DefaultOpponents()
	require.Len(t, opponents, 7)
	assert.Equal(t, "Random", opponents[0].Name)

	agents := TestAgents()
	require.Len(t, agents, 4)
	assert.Equal(t, "ID_Improved", agents[0].Name)
}
