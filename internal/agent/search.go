package agent

import (
	"errors"
	"math"
	"time"

	"team_iso/internal/domain/isolation"
)

type Method string

const (
	MethodMinimax   Method = "minimax"
	MethodAlphaBeta Method = "alphabeta"
)

// ErrSearchTimeout прерывает поиск, когда запас времени исчерпан.
// Наружу из ChooseMove не выходит.
var ErrSearchTimeout = errors.New("search timed out")

const (
	DefaultDepth     = 3
	DefaultThreshold = 10 * time.Millisecond
)

// SearchOptions настраивают SearchPlayer; нулевые поля получают
// значения по умолчанию.
type SearchOptions struct {
	Depth     int
	Score     ScoreFunc
	Iterative bool
	Method    Method
	Threshold time.Duration
}

// SearchPlayer выбирает ход перебором дерева игры: minimax или
// alphabeta, с фиксированной глубиной либо итеративным углублением.
type SearchPlayer struct {
	name      string
	depth     int
	score     ScoreFunc
	iterative bool
	method    Method
	threshold time.Duration
}

func NewSearchPlayer(name string, opts SearchOptions) *SearchPlayer {
	if opts.Depth <= 0 {
		opts.Depth = DefaultDepth
	}
	if opts.Score == nil {
		opts.Score = MoveDiffFromCenter
	}
	if opts.Method == "" {
		opts.Method = MethodMinimax
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	return &SearchPlayer{
		name:      name,
		depth:     opts.Depth,
		score:     opts.Score,
		iterative: opts.Iterative,
		method:    opts.Method,
		threshold: opts.Threshold,
	}
}

func (p *SearchPlayer) Name() string { return p.name }

// ChooseMove ищет лучший ход до срабатывания таймера. При итеративном
// углублении берётся лучший ход из всех завершившихся глубин; ход
// новой глубины принимается только при строгом улучшении оценки.
func (p *SearchPlayer) ChooseMove(b *isolation.Board, timeLeft func() time.Duration) isolation.Move {
	legal := b.LegalMovesToMove()
	if len(legal) == 0 {
		return isolation.NoMove
	}

	s := &search{
		player:    b.ToMove(),
		score:     p.score,
		timeLeft:  timeLeft,
		threshold: p.threshold,
	}

	bestMove := isolation.NoMove
	if p.iterative {
		bestScore := math.Inf(-1)
		for depth := 1; ; depth++ {
			score, move, err := p.run(s, b, depth)
			if err != nil {
				break
			}
			if bestScore < score {
				bestScore = score
				bestMove = move
			}
		}
	} else {
		if _, move, err := p.run(s, b, p.depth); err == nil {
			bestMove = move
		}
	}
	return bestMove
}

func (p *SearchPlayer) run(s *search, b *isolation.Board, depth int) (float64, isolation.Move, error) {
	if p.method == MethodAlphaBeta {
		return s.alphabeta(b, depth, math.Inf(-1), math.Inf(1), true)
	}
	return s.minimax(b, depth, true)
}

// search хранит контекст одного вызова ChooseMove: с чьей точки
// зрения считается оценка и сколько времени осталось.
type search struct {
	player    isolation.Player
	score     ScoreFunc
	timeLeft  func() time.Duration
	threshold time.Duration
}

func (s *search) checkTime() error {
	if s.timeLeft != nil && s.timeLeft() < s.threshold {
		return ErrSearchTimeout
	}
	return nil
}

func (s *search) minimax(b *isolation.Board, depth int, maximizing bool) (float64, isolation.Move, error) {
	if err := s.checkTime(); err != nil {
		return 0, isolation.NoMove, err
	}

	moves := b.LegalMovesToMove()
	if depth == 0 || len(moves) == 0 {
		return s.score(b, s.player), isolation.NoMove, nil
	}

	bestMove := isolation.NoMove
	bestScore := math.Inf(-1)
	if !maximizing {
		bestScore = math.Inf(1)
	}

	for _, m := range moves {
		next, err := b.Forecast(m)
		if err != nil {
			return 0, isolation.NoMove, err
		}
		score, _, err := s.minimax(next, depth-1, !maximizing)
		if err != nil {
			return 0, isolation.NoMove, err
		}
		if maximizing {
			if score > bestScore {
				bestScore = score
				bestMove = m
			}
		} else {
			if score < bestScore {
				bestScore = score
				bestMove = m
			}
		}
	}
	return bestScore, bestMove, nil
}

func (s *search) alphabeta(b *isolation.Board, depth int, alpha, beta float64, maximizing bool) (float64, isolation.Move, error) {
	if err := s.checkTime(); err != nil {
		return 0, isolation.NoMove, err
	}

	moves := b.LegalMovesToMove()
	if depth == 0 || len(moves) == 0 {
		return s.score(b, s.player), isolation.NoMove, nil
	}

	bestMove := isolation.NoMove
	bestScore := math.Inf(-1)
	if !maximizing {
		bestScore = math.Inf(1)
	}

	for _, m := range moves {
		next, err := b.Forecast(m)
		if err != nil {
			return 0, isolation.NoMove, err
		}
		score, _, err := s.alphabeta(next, depth-1, alpha, beta, !maximizing)
		if err != nil {
			return 0, isolation.NoMove, err
		}
		if maximizing {
			if score > bestScore {
				bestScore = score
				bestMove = m
			}
			if bestScore >= beta {
				return bestScore, bestMove, nil
			}
			alpha = math.Max(alpha, bestScore)
		} else {
			if score < bestScore {
				bestScore = score
				bestMove = m
			}
			if bestScore <= alpha {
				return bestScore, bestMove, nil
			}
			beta = math.Min(beta, bestScore)
		}
	}
	return bestScore, bestMove, nil
}
