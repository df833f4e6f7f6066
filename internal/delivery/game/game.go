package game

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"team_iso/internal/adapters"
	"team_iso/internal/agent"
	"team_iso/internal/bootstrap"
	"team_iso/internal/delivery/auth"
	"team_iso/internal/domain/game"
	errs "team_iso/internal/errors"
	"team_iso/internal/httpresponse"
	repo "team_iso/internal/repository"
	"team_iso/internal/statuses"
	gameuc "team_iso/internal/usecase/game"
	"team_iso/internal/utils"
)

type GameHandler struct {
	cfg         bootstrap.Config
	log         *zap.SugaredLogger
	gameUC      *gameuc.GameUseCase
	authHandler *auth.AuthHandler
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// activeGames держит websocket-соединения играющих партий.
var activeGames = make(map[string]*game.Game)
var activeGamesMu sync.RWMutex

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, mongoAdapter *adapters.AdapterMongo, redisAdapter *adapters.AdapterRedis, authHandler *auth.AuthHandler) *GameHandler {
	score, ok := agent.ScoreByName(cfg.AgentHeuristic)
	if !ok {
		log.Warnf("неизвестная эвристика %q, используется center", cfg.AgentHeuristic)
		score = agent.MoveDiffFromCenter
	}
	bot := agent.NewSearchPlayer("bot", agent.SearchOptions{
		Iterative: true,
		Method:    agent.Method(cfg.AgentMethod),
		Score:     score,
	})

	store := repo.NewGameRepository(cfg, log, redisAdapter.GetClient(), mongoAdapter.Database)
	moveTime := time.Duration(cfg.MoveTimeMs) * time.Millisecond

	return &GameHandler{
		cfg:         cfg,
		log:         log,
		gameUC:      gameuc.NewGameUseCase(store, authHandler.Usecase(), bot, moveTime),
		authHandler: authHandler,
	}
}

// HandleNewGame создаёт партию; против бота партия начинается сразу.
func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.log.Error("Only POST method is allowed")
		httpresponse.WriteResponseWithStatus(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var createRequest game.CreateGameRequest
	if err := utils.DecodeJSONRequest(r, &createRequest); err != nil {
		g.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	ctx := r.Context()

	alreadyIsInGame, err := g.gameUC.HasUserActiveGamesByUserId(ctx, userID)
	if err != nil {
		g.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "ошибка при создании игры: "+err.Error())
		return
	}
	if alreadyIsInGame {
		g.log.Error("пользователь уже состоит в игре!")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "ошибка при создании игры: уже состоит в игре")
		return
	}

	created, err := g.gameUC.CreateGame(ctx, createRequest, userID)
	if err != nil {
		g.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := game.GameCreateResponse{
		PublicKey: created.GameKeyPublic,
		SecretKey: created.GameKeySecret,
	}

	g.log.Info("New game created with public key: " + created.GameKeyPublic)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

// HandleJoinGame присоединяет игрока по публичному ключу.
func (g *GameHandler) HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.log.Error("Only POST method is allowed")
		httpresponse.WriteResponseWithStatus(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	userID := g.authHandler.GetUserID(w, r)
	if userID == "" {
		return
	}

	var joinRequest game.GameJoinRequest
	if err := utils.DecodeJSONRequest(r, &joinRequest); err != nil {
		g.log.Error("JSON decode error:", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	joinRequest.UserID = userID

	if joinRequest.GameKey == "" {
		g.log.Error("неверный json: пустой game_key")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Invalid JSON: game_key is required")
		return
	}

	ctx := r.Context()

	alreadyIsInGame, err := g.gameUC.HasUserActiveGamesByUserId(ctx, userID)
	if err != nil {
		g.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "ошибка при добавлении в игру: "+err.Error())
		return
	}
	if alreadyIsInGame {
		g.log.Error("пользователь уже состоит в игре!")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "ошибка при добавлении в игру: уже состоит в игре")
		return
	}

	joined, err := g.gameUC.JoinGame(ctx, joinRequest)
	if err != nil {
		g.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	g.log.Infof("пользователь %s присоединился к игре %s", userID, joined.GameKeyPublic)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, joined)
}

// GetGameByPublicKey отдаёт запись партии (без секретного ключа).
func (g *GameHandler) GetGameByPublicKey(w http.ResponseWriter, r *http.Request) {
	gameKey := r.URL.Query().Get("game_key")
	if gameKey == "" {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "отсутствует параметр game_key")
		return
	}

	found, err := g.gameUC.GetGameByPublicKey(r.Context(), gameKey)
	if err != nil {
		g.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusNotFound, err.Error())
		return
	}
	found.GameKeySecret = ""
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, found)
}

// HandleStartGame переводит партию в websocket: каждый ход
// проверяется, сохраняется и рассылается; в партии с ботом ответ
// агента уходит в тот же сокет.
func (g *GameHandler) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gameID := r.URL.Query().Get("game_id")
	playerID := g.authHandler.GetUserID(w, r)

	if gameID == "" || playerID == "" {
		g.log.Error("отсутствуют поля gameID или playerID")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "отсутствуют поля gameID или playerID")
		return
	}

	foundGame, err := g.gameUC.GetGameByPublicKey(ctx, gameID)
	if err != nil {
		g.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusNotFound, err.Error())
		return
	}
	if !g.gameUC.IsUserInGame(foundGame, playerID) {
		g.log.Error("пользователь не в игре!")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "пользователь не в игре!")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade error:", err)
		return
	}

	ag, playerWS, opponentWS, ok := attachSeat(gameID, foundGame, playerID)
	if !ok {
		g.log.Error("Unknown player id:", playerID)
		conn.Close()
		return
	}

	activeGamesMu.Lock()
	if *playerWS != nil {
		(*playerWS).WriteMessage(websocket.TextMessage, []byte("Вы были отключены, новое соединение создано."))
		(*playerWS).Close()
	}
	*playerWS = conn
	activeGamesMu.Unlock()

	defer func() {
		conn.Close()
		activeGamesMu.Lock()
		if *playerWS == conn {
			*playerWS = nil
		}
		activeGamesMu.Unlock()
	}()

	// в партии с ботом первый ход может быть за агентом
	if ag.VsBot {
		botState, err := g.gameUC.BotReply(ctx, ag.GameKeySecret)
		switch err {
		case nil:
			g.broadcast(conn, opponentWS, botState)
		case errs.ErrNotYourTurn, errs.ErrGameFinished:
			// очередь человека либо партия уже сыграна
		default:
			g.log.Error("bot opening error:", err)
		}
	}

	for {
		var moveRequest game.MoveRequest
		if err = conn.ReadJSON(&moveRequest); err != nil {
			g.log.Error("read error:", err)
			return
		}

		g.log.Info("Получен ход: ", moveRequest)

		state, err := g.gameUC.ApplyMove(ctx, ag.GameKeySecret, playerID, moveRequest.Move())
		if err != nil {
			g.log.Error(err)
			conn.WriteMessage(websocket.TextMessage, []byte(err.Error()))
			continue
		}

		g.broadcast(conn, opponentWS, state)
		if state.Status == statuses.StatusFinished {
			forgetGame(gameID)
			return
		}

		if ag.VsBot {
			botState, err := g.gameUC.BotReply(ctx, ag.GameKeySecret)
			if err != nil {
				g.log.Error("bot reply error:", err)
				continue
			}
			g.broadcast(conn, opponentWS, botState)
			if botState.Status == statuses.StatusFinished {
				forgetGame(gameID)
				return
			}
		}
	}
}

// attachSeat находит кресло игрока в кэшированной записи партии.
// Если игрок присоединился уже после первого подключения соперника,
// кэш освежается из свежепрочитанной записи.
func attachSeat(gameID string, foundGame game.Game, playerID string) (ag *game.Game, playerWS, opponentWS **websocket.Conn, ok bool) {
	activeGamesMu.Lock()
	defer activeGamesMu.Unlock()

	ag, cached := activeGames[gameID]
	if !cached {
		cp := foundGame
		ag = &cp
		activeGames[gameID] = ag
	} else if playerID != ag.PlayerFirst && playerID != ag.PlayerSecond {
		ag.PlayerFirst = foundGame.PlayerFirst
		ag.PlayerSecond = foundGame.PlayerSecond
		ag.Status = foundGame.Status
	}

	switch playerID {
	case ag.PlayerFirst:
		return ag, &ag.PlayerFirstWS, &ag.PlayerSecondWS, true
	case ag.PlayerSecond:
		return ag, &ag.PlayerSecondWS, &ag.PlayerFirstWS, true
	default:
		return nil, nil, nil, false
	}
}

// forgetGame убирает завершённую партию из карты активных.
func forgetGame(gameID string) {
	activeGamesMu.Lock()
	delete(activeGames, gameID)
	activeGamesMu.Unlock()
}

// broadcast шлёт состояние обоим участникам, переживая отвал
// соперника. Обе записи идут под activeGamesMu: к сокету игрока
// параллельно пишет и цикл соперника.
func (g *GameHandler) broadcast(conn *websocket.Conn, opponentWS **websocket.Conn, state game.GameStateResponse) {
	activeGamesMu.Lock()
	defer activeGamesMu.Unlock()

	if err := conn.WriteJSON(state); err != nil {
		g.log.Error("Write error:", err)
	}
	if *opponentWS != nil && *opponentWS != conn {
		if err := (*opponentWS).WriteJSON(state); err != nil {
			g.log.Error("Write to opponent error:", err)
			(*opponentWS).Close()
			*opponentWS = nil
		}
	}
}
