package game

import "team_iso/internal/domain/isolation"

// MoveRequest — ход игрока из websocket-сообщения.
type MoveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (m MoveRequest) Move() isolation.Move {
	return isolation.Move{Row: m.Row, Col: m.Col}
}

// BotMoveRequest — запрос лучшего хода без привязки к партии на
// сервере: позиция восстанавливается из списка ходов.
type BotMoveRequest struct {
	BoardWidth  int              `json:"board_width"`
	BoardHeight int              `json:"board_height"`
	Moves       []isolation.Move `json:"moves"`
}

type BotMoveResponse struct {
	BotMove isolation.Move `json:"bot_move"`
}
