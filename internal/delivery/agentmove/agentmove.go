package agentmove

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"team_iso/internal/agent"
	"team_iso/internal/bootstrap"
	"team_iso/internal/domain/game"
	gameuc "team_iso/internal/usecase/game"
)

// AgentMoveHandler отвечает лучшим ходом на присланную позицию, не
// создавая партии на сервере.
type AgentMoveHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
}

func NewAgentMoveHandler(cfg bootstrap.Config, log *zap.SugaredLogger) *AgentMoveHandler {
	score, ok := agent.ScoreByName(cfg.AgentHeuristic)
	if !ok {
		score = agent.MoveDiffFromCenter
	}
	bot := agent.NewSearchPlayer("bot", agent.SearchOptions{
		Iterative: true,
		Method:    agent.Method(cfg.AgentMethod),
		Score:     score,
	})
	moveTime := time.Duration(cfg.MoveTimeMs) * time.Millisecond

	return &AgentMoveHandler{
		cfg:    cfg,
		log:    log,
		gameUC: gameuc.NewGameUseCase(nil, nil, bot, moveTime),
	}
}

func (h *AgentMoveHandler) HandleGenerateMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(h.log, w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var moveRequest game.BotMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&moveRequest); err != nil {
		writeJSONError(h.log, w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	botMove, err := h.gameUC.GenerateBotMove(moveRequest)
	if err != nil {
		h.log.Errorf("failed to generate bot move: %v", err)
		writeJSONError(h.log, w, http.StatusBadRequest, "Failed to generate bot move: "+err.Error())
		return
	}

	resp := game.BotMoveResponse{BotMove: botMove}

	writeJSON(h.log, w, http.StatusOK, resp)
}

func writeJSON(log *zap.SugaredLogger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("writeJSON encode error: %v", err)
	}
}

func writeJSONError(log *zap.SugaredLogger, w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	log.Debugf("writeJSONError: %s", msg)
}
