package tournament

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"team_iso/internal/agent"
	"team_iso/internal/domain/isolation"
)

// DefaultMoveTime — часы на один ход; агент, не успевший ответить,
// проигрывает партию.
const DefaultMoveTime = 150 * time.Millisecond

type Config struct {
	NumMatches int           // матчей против каждого соперника (2 партии на матч)
	MoveTime   time.Duration // лимит времени на ход
	Width      int
	Height     int
	Workers    int
}

func (c *Config) fill() {
	if c.NumMatches <= 0 {
		c.NumMatches = 5
	}
	if c.MoveTime <= 0 {
		c.MoveTime = DefaultMoveTime
	}
	if c.Width <= 0 {
		c.Width = isolation.DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = isolation.DefaultHeight
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Entrant — участник турнира.
type Entrant struct {
	Name   string
	Player agent.Player
}

// MatchResult — итог серии одного агента против одного соперника.
type MatchResult struct {
	Agent    string `json:"agent"`
	Opponent string `json:"opponent"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

// Report — результаты одного агента против всего состава соперников.
type Report struct {
	Agent   string        `json:"agent"`
	Results []MatchResult `json:"results"`
	Wins    int           `json:"wins"`
	Games   int           `json:"games"`
}

func (r Report) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games) * 100
}

// DefaultOpponents — состав CPU-соперников: случайный агент и поиск
// фиксированной глубины с базовыми эвристиками.
func DefaultOpponents() []Entrant {
	fixed := func(name string, method agent.Method, score agent.ScoreFunc) Entrant {
		return Entrant{Name: name, Player: agent.NewSearchPlayer(name, agent.SearchOptions{
			Depth:  agent.DefaultDepth,
			Method: method,
			Score:  score,
		})}
	}
	return []Entrant{
		{Name: "Random", Player: agent.NewRandomPlayer("Random")},
		fixed("MM_Null", agent.MethodMinimax, agent.NullScore),
		fixed("MM_Open", agent.MethodMinimax, agent.OpenMoveScore),
		fixed("MM_Improved", agent.MethodMinimax, agent.ImprovedScore),
		fixed("AB_Null", agent.MethodAlphaBeta, agent.NullScore),
		fixed("AB_Open", agent.MethodAlphaBeta, agent.OpenMoveScore),
		fixed("AB_Improved", agent.MethodAlphaBeta, agent.ImprovedScore),
	}
}

// TestAgents — проверяемые агенты: итеративный alphabeta поверх каждой
// из эвристик, ID_Improved как контрольный.
func TestAgents() []Entrant {
	iterative := func(name string, score agent.ScoreFunc) Entrant {
		return Entrant{Name: name, Player: agent.NewSearchPlayer(name, agent.SearchOptions{
			Iterative: true,
			Method:    agent.MethodAlphaBeta,
			Score:     score,
		})}
	}
	return []Entrant{
		iterative("ID_Improved", agent.ImprovedScore),
		iterative("ID_RatioOfMoves", agent.RatioOfMoves),
		iterative("ID_MoveDiffSpaces", agent.MoveDiffWithSpaces),
		iterative("ID_MoveDiffCenter", agent.MoveDiffFromCenter),
	}
}

// PlayGame доигрывает партию с текущей позиции. Каждому ходу даётся
// moveTime; нелегальный ход, NoMove при наличии ходов и просрочка
// считаются поражением.
func PlayGame(b *isolation.Board, players [2]agent.Player, moveTime time.Duration) isolation.Player {
	for {
		side := b.ToMove()
		legal := b.LegalMovesToMove()
		if len(legal) == 0 {
			return side.Other()
		}

		deadline := time.Now().Add(moveTime)
		timeLeft := func() time.Duration { return time.Until(deadline) }

		move := players[side].ChooseMove(b.Copy(), timeLeft)
		if timeLeft() < 0 {
			return side.Other()
		}
		if move.IsNone() {
			return side.Other()
		}
		if err := b.Apply(move); err != nil {
			return side.Other()
		}
	}
}

// Series играет 2n честных партий a против b: обе партии пары
// начинаются с одних и тех же случайных вступительных ходов, стороны
// меняются местами.
func Series(a, b agent.Player, cfg Config, rng *rand.Rand) (winsA, winsB int) {
	cfg.fill()
	for match := 0; match < cfg.NumMatches; match++ {
		forward := isolation.NewBoard(cfg.Width, cfg.Height)
		mirror := isolation.NewBoard(cfg.Width, cfg.Height)

		// одинаковое случайное начало для обеих партий пары
		for i := 0; i < 2; i++ {
			legal := forward.LegalMovesToMove()
			opening := legal[rng.Intn(len(legal))]
			if err := forward.Apply(opening); err != nil {
				panic(fmt.Sprintf("tournament: bad opening move: %v", err))
			}
			if err := mirror.Apply(opening); err != nil {
				panic(fmt.Sprintf("tournament: bad opening move: %v", err))
			}
		}

		if PlayGame(forward, [2]agent.Player{a, b}, cfg.MoveTime) == isolation.Player1 {
			winsA++
		} else {
			winsB++
		}
		if PlayGame(mirror, [2]agent.Player{b, a}, cfg.MoveTime) == isolation.Player1 {
			winsB++
		} else {
			winsA++
		}
	}
	return winsA, winsB
}

type task struct {
	idx      int
	agent    Entrant
	opponent Entrant
}

// Tournament прогоняет каждого тестового агента против всего состава
// соперников; серии раздаются пулу воркеров.
type Tournament struct {
	cfg Config
	log *zap.SugaredLogger
}

func New(cfg Config, log *zap.SugaredLogger) *Tournament {
	cfg.fill()
	return &Tournament{cfg: cfg, log: log}
}

// Run возвращает по отчёту на каждого агента, в исходном порядке.
func (t *Tournament) Run(agents, opponents []Entrant) []Report {
	tasks := make(chan task)
	type outcome struct {
		idx    int
		result MatchResult
	}
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for w := 0; w < t.cfg.Workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for tk := range tasks {
				wins, losses := Series(tk.agent.Player, tk.opponent.Player, t.cfg, rng)
				t.log.Infow("series finished",
					"agent", tk.agent.Name,
					"opponent", tk.opponent.Name,
					"wins", wins,
					"losses", losses,
				)
				outcomes <- outcome{idx: tk.idx, result: MatchResult{
					Agent:    tk.agent.Name,
					Opponent: tk.opponent.Name,
					Wins:     wins,
					Losses:   losses,
				}}
			}
		}(time.Now().UnixNano() + int64(w))
	}

	go func() {
		for i, a := range agents {
			for j, o := range opponents {
				tasks <- task{idx: i*len(opponents) + j, agent: a, opponent: o}
			}
		}
		close(tasks)
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	flat := make([]MatchResult, len(agents)*len(opponents))
	for out := range outcomes {
		flat[out.idx] = out.result
	}

	reports := make([]Report, 0, len(agents))
	for i, a := range agents {
		rep := Report{Agent: a.Name}
		for j := range opponents {
			res := flat[i*len(opponents)+j]
			rep.Results = append(rep.Results, res)
			rep.Wins += res.Wins
			rep.Games += res.Wins + res.Losses
		}
		reports = append(reports, rep)
	}
	return reports
}
