package agent

import (
	"math"

	"team_iso/internal/domain/isolation"
)

// ScoreFunc оценивает позицию с точки зрения игрока p. Терминальные
// позиции дают +Inf (соперник заперт) и -Inf (заперт сам игрок).
type ScoreFunc func(b *isolation.Board, p isolation.Player) float64

// NullScore не различает нетерминальные позиции.
func NullScore(b *isolation.Board, p isolation.Player) float64 {
	opp := len(b.LegalMoves(p.Other()))
	own := len(b.LegalMoves(p))
	switch {
	case opp == 0:
		return math.Inf(1)
	case own == 0:
		return math.Inf(-1)
	default:
		return 0
	}
}

// OpenMoveScore — количество собственных ходов.
func OpenMoveScore(b *isolation.Board, p isolation.Player) float64 {
	opp := len(b.LegalMoves(p.Other()))
	own := len(b.LegalMoves(p))
	switch {
	case opp == 0:
		return math.Inf(1)
	case own == 0:
		return math.Inf(-1)
	default:
		return float64(own)
	}
}

// ImprovedScore — разница своих и чужих ходов.
func ImprovedScore(b *isolation.Board, p isolation.Player) float64 {
	opp := len(b.LegalMoves(p.Other()))
	own := len(b.LegalMoves(p))
	switch {
	case opp == 0:
		return math.Inf(1)
	case own == 0:
		return math.Inf(-1)
	default:
		return float64(own - opp)
	}
}

// RatioOfMoves — отношение числа своих ходов к чужим.
func RatioOfMoves(b *isolation.Board, p isolation.Player) float64 {
	const playerFactor, oppFactor = 1.0, 1.0
	own := len(b.LegalMoves(p))
	opp := len(b.LegalMoves(p.Other()))
	switch {
	case opp == 0:
		return math.Inf(1)
	case own == 0:
		return math.Inf(-1)
	default:
		return playerFactor * float64(own) / (oppFactor * float64(opp))
	}
}

// MoveDiffWithSpaces — взвешенная разница ходов: вес своих ходов
// растёт по мере заполнения доски (total/open), чужие ходы считаются
// с удвоенным штрафом.
func MoveDiffWithSpaces(b *isolation.Board, p isolation.Player) float64 {
	const playerFactor, oppFactor = 1.0, 2.0
	own := len(b.LegalMoves(p))
	opp := len(b.LegalMoves(p.Other()))
	open := b.BlankSpaces()
	total := b.Width() * b.Height()
	switch {
	case opp == 0:
		return math.Inf(1)
	case own == 0:
		return math.Inf(-1)
	default:
		return playerFactor*float64(own)*(float64(total)/float64(open)) - oppFactor*float64(opp)
	}
}

// MoveDiffFromCenter — каждый доступный ход оценивается тем выше, чем
// ближе он к центру доски; сумма соперника вычитается с удвоенным
// весом.
func MoveDiffFromCenter(b *isolation.Board, p isolation.Player) float64 {
	const playerFactor, oppFactor = 1.0, 2.0
	// центр берётся как (w/2, h/2) и покомпонентно сопоставляется
	// с (row, col); нормировка — по ширине доски.
	center := [2]int{b.Width() / 2, b.Height() / 2}

	weight := func(m isolation.Move) float64 {
		dr := float64(center[0] - m.Row)
		dc := float64(center[1] - m.Col)
		return 1 - math.Sqrt(dr*dr+dc*dc)/float64(b.Width())
	}

	ownMoves := b.LegalMoves(p)
	ownScore := 0.0
	for _, m := range ownMoves {
		ownScore += weight(m)
	}
	oppMoves := b.LegalMoves(p.Other())
	oppScore := 0.0
	for _, m := range oppMoves {
		oppScore += weight(m)
	}

	switch {
	case len(oppMoves) == 0:
		return math.Inf(1)
	case len(ownMoves) == 0:
		return math.Inf(-1)
	default:
		return playerFactor*ownScore - oppFactor*oppScore
	}
}

// ScoreByName — выбор эвристики по имени из конфига.
func ScoreByName(name string) (ScoreFunc, bool) {
	switch name {
	case "null":
		return NullScore, true
	case "open":
		return OpenMoveScore, true
	case "improved":
		return ImprovedScore, true
	case "ratio":
		return RatioOfMoves, true
	case "spaces":
		return MoveDiffWithSpaces, true
	case "center", "":
		return MoveDiffFromCenter, true
	default:
		return nil, false
	}
}
