package agent

import (
	"math/rand"
	"time"

	"team_iso/internal/domain/isolation"
)

// Player — интерфейс всех агентов. timeLeft сообщает остаток времени
// на ход; вернуть ход нужно до его истечения, иначе поражение.
type Player interface {
	Name() string
	ChooseMove(b *isolation.Board, timeLeft func() time.Duration) isolation.Move
}

// RandomPlayer ходит равновероятно в любую доступную клетку.
// Глобальный источник math/rand безопасен при параллельных партиях.
type RandomPlayer struct {
	name string
}

func NewRandomPlayer(name string) *RandomPlayer {
	return &RandomPlayer{name: name}
}

func (p *RandomPlayer) Name() string { return p.name }

func (p *RandomPlayer) ChooseMove(b *isolation.Board, _ func() time.Duration) isolation.Move {
	legal := b.LegalMovesToMove()
	if len(legal) == 0 {
		return isolation.NoMove
	}
	return legal[rand.Intn(len(legal))]
}
