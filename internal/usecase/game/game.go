package game

import (
	"context"
	"time"

	"team_iso/internal/agent"
	"team_iso/internal/domain/game"
	"team_iso/internal/domain/isolation"
	errs "team_iso/internal/errors"
	"team_iso/internal/statuses"
	"team_iso/internal/usecase/auth"
)

// BotUserID — идентификатор встроенного агента в записях партий.
const BotUserID = "bot"

type GameStore interface {
	GenerateGameKeys(ctx context.Context) (gameKeySecret string, gameKeyPublic string)
	PutGame(ctx context.Context, gameData game.Game) error
	AddPlayer(ctx context.Context, userID string, gameKeySecret string) (game.Game, error)
	GetGameBySecretKey(ctx context.Context, gameKeySecret string) (game.Game, error)
	GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error)
	HasUserActiveGameByUserId(ctx context.Context, userID string) (bool, error)
	AppendMove(ctx context.Context, gameKeySecret string, move isolation.Move) error
	FinishGame(ctx context.Context, gameKeySecret string, winner string) error
	SaveLiveState(ctx context.Context, gameKeySecret string, width, height int, moves []isolation.Move) error
	LoadLiveState(ctx context.Context, gameKeySecret string) (width, height int, moves []isolation.Move, err error)
}

type GameUseCase struct {
	store       GameStore
	userUsecase *auth.AuthUsecaseHandler
	bot         agent.Player
	moveTime    time.Duration
}

func NewGameUseCase(store GameStore, userUsecase *auth.AuthUsecaseHandler, bot agent.Player, moveTime time.Duration) *GameUseCase {
	if moveTime <= 0 {
		moveTime = 150 * time.Millisecond
	}
	return &GameUseCase{
		store:       store,
		userUsecase: userUsecase,
		bot:         bot,
		moveTime:    moveTime,
	}
}

func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest, creatorID string) (game.Game, error) {
	gameKeySecret, gameKeyPublic := g.store.GenerateGameKeys(ctx)

	width := req.BoardWidth
	if width <= 0 {
		width = isolation.DefaultWidth
	}
	height := req.BoardHeight
	if height <= 0 {
		height = isolation.DefaultHeight
	}

	newGame := game.Game{
		GameKeySecret: gameKeySecret,
		GameKeyPublic: gameKeyPublic,
		Status:        statuses.StatusWaitOpponent,
		BoardWidth:    width,
		BoardHeight:   height,
		VsBot:         req.VsBot,
		CreatedAt:     time.Now(),
	}

	if req.IsCreatorFirst {
		newGame.PlayerFirst = creatorID
	} else {
		newGame.PlayerSecond = creatorID
	}

	if req.VsBot {
		if newGame.PlayerFirst == "" {
			newGame.PlayerFirst = BotUserID
		} else {
			newGame.PlayerSecond = BotUserID
		}
		newGame.Status = statuses.StatusActive
		now := time.Now()
		newGame.StartedAt = &now
	}

	if err := g.store.PutGame(ctx, newGame); err != nil {
		return game.Game{}, err
	}
	if err := g.store.SaveLiveState(ctx, gameKeySecret, width, height, nil); err != nil {
		return game.Game{}, err
	}
	return newGame, nil
}

func (g *GameUseCase) JoinGame(ctx context.Context, req game.GameJoinRequest) (game.Game, error) {
	found, err := g.store.GetGameByPublicKey(ctx, req.GameKey)
	if err != nil {
		return game.Game{}, err
	}
	if found.Status == statuses.StatusFinished {
		return game.Game{}, errs.ErrGameFinished
	}

	joined, err := g.store.AddPlayer(ctx, req.UserID, found.GameKeySecret)
	if err != nil {
		return game.Game{}, err
	}
	return joined, nil
}

func (g *GameUseCase) GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	return g.store.GetGameByPublicKey(ctx, gameKeyPublic)
}

func (g *GameUseCase) GetGameBySecretKey(ctx context.Context, gameKeySecret string) (game.Game, error) {
	return g.store.GetGameBySecretKey(ctx, gameKeySecret)
}

func (g *GameUseCase) HasUserActiveGamesByUserId(ctx context.Context, userID string) (bool, error) {
	return g.store.HasUserActiveGameByUserId(ctx, userID)
}

func (g *GameUseCase) IsUserInGame(play game.Game, userID string) bool {
	return play.PlayerFirst == userID || play.PlayerSecond == userID
}

// seat возвращает кресло пользователя в партии.
func seat(play game.Game, userID string) (isolation.Player, bool) {
	switch userID {
	case play.PlayerFirst:
		return isolation.Player1, true
	case play.PlayerSecond:
		return isolation.Player2, true
	default:
		return isolation.Player1, false
	}
}

// ReplayBoard восстанавливает позицию из списка ходов.
func ReplayBoard(width, height int, moves []isolation.Move) (*isolation.Board, error) {
	b := isolation.NewBoard(width, height)
	for _, m := range moves {
		if err := b.Apply(m); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ApplyMove проводит ход пользователя: проверяет очередь и легальность,
// обновляет живое состояние и запись партии, закрывает партию при
// отсутствии ходов у соперника.
func (g *GameUseCase) ApplyMove(ctx context.Context, gameKeySecret string, userID string, move isolation.Move) (game.GameStateResponse, error) {
	play, err := g.store.GetGameBySecretKey(ctx, gameKeySecret)
	if err != nil {
		return game.GameStateResponse{}, err
	}
	if play.Status == statuses.StatusFinished {
		return game.GameStateResponse{}, errs.ErrGameFinished
	}

	mover, ok := seat(play, userID)
	if !ok {
		return game.GameStateResponse{}, errs.ErrGameNotFound
	}

	width, height, moves, err := g.store.LoadLiveState(ctx, gameKeySecret)
	if err != nil {
		return game.GameStateResponse{}, err
	}
	board, err := ReplayBoard(width, height, moves)
	if err != nil {
		return game.GameStateResponse{}, err
	}

	if board.ToMove() != mover {
		return game.GameStateResponse{}, errs.ErrNotYourTurn
	}
	if err := board.Apply(move); err != nil {
		return game.GameStateResponse{}, errs.ErrIllegalMove
	}

	moves = append(moves, move)
	if err := g.store.SaveLiveState(ctx, gameKeySecret, width, height, moves); err != nil {
		return game.GameStateResponse{}, err
	}
	if err := g.store.AppendMove(ctx, gameKeySecret, move); err != nil {
		return game.GameStateResponse{}, err
	}

	resp := game.GameStateResponse{
		Move:   move,
		Mover:  userID,
		Board:  board.String(),
		Status: statuses.StatusActive,
	}

	if board.GameOver() {
		// сопернику некуда ходить: сделавший ход победил
		resp.Status = statuses.StatusFinished
		resp.Winner = userID
		if err := g.finish(ctx, play, userID); err != nil {
			return game.GameStateResponse{}, err
		}
	}
	return resp, nil
}

// BotReply делает ответный ход агента в партии против бота.
func (g *GameUseCase) BotReply(ctx context.Context, gameKeySecret string) (game.GameStateResponse, error) {
	play, err := g.store.GetGameBySecretKey(ctx, gameKeySecret)
	if err != nil {
		return game.GameStateResponse{}, err
	}
	if !play.VsBot {
		return game.GameStateResponse{}, errs.ErrGameNotFound
	}
	if play.Status == statuses.StatusFinished {
		return game.GameStateResponse{}, errs.ErrGameFinished
	}

	width, height, moves, err := g.store.LoadLiveState(ctx, gameKeySecret)
	if err != nil {
		return game.GameStateResponse{}, err
	}
	board, err := ReplayBoard(width, height, moves)
	if err != nil {
		return game.GameStateResponse{}, err
	}

	botSeat, ok := seat(play, BotUserID)
	if !ok || board.ToMove() != botSeat {
		return game.GameStateResponse{}, errs.ErrNotYourTurn
	}

	deadline := time.Now().Add(g.moveTime)
	timeLeft := func() time.Duration { return time.Until(deadline) }
	move := g.bot.ChooseMove(board.Copy(), timeLeft)
	if move.IsNone() {
		// боту некуда ходить: победа человека
		opponent := play.PlayerFirst
		if opponent == BotUserID {
			opponent = play.PlayerSecond
		}
		if err := g.finish(ctx, play, opponent); err != nil {
			return game.GameStateResponse{}, err
		}
		return game.GameStateResponse{
			Move:   isolation.NoMove,
			Mover:  BotUserID,
			Board:  board.String(),
			Status: statuses.StatusFinished,
			Winner: opponent,
		}, nil
	}

	return g.ApplyMove(ctx, gameKeySecret, BotUserID, move)
}

// GenerateBotMove — лучший ход для присланной позиции, без партии на
// сервере.
func (g *GameUseCase) GenerateBotMove(req game.BotMoveRequest) (isolation.Move, error) {
	board, err := ReplayBoard(req.BoardWidth, req.BoardHeight, req.Moves)
	if err != nil {
		return isolation.NoMove, errs.ErrIllegalMove
	}

	deadline := time.Now().Add(g.moveTime)
	timeLeft := func() time.Duration { return time.Until(deadline) }
	return g.bot.ChooseMove(board, timeLeft), nil
}

func (g *GameUseCase) finish(ctx context.Context, play game.Game, winner string) error {
	if err := g.store.FinishGame(ctx, play.GameKeySecret, winner); err != nil {
		return err
	}
	if g.userUsecase == nil {
		return nil
	}
	loser := play.PlayerFirst
	if loser == winner {
		loser = play.PlayerSecond
	}
	if winner != BotUserID && winner != "" {
		_ = g.userUsecase.AddWin(ctx, winner)
	}
	if loser != BotUserID && loser != "" {
		_ = g.userUsecase.AddLose(ctx, loser)
	}
	return nil
}
