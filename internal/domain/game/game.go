package game

import (
	"time"

	"github.com/gorilla/websocket"

	"team_iso/internal/domain/isolation"
)

// Game — запись партии. Первый игрок всегда ходит первым.
type Game struct {
	GameKeySecret string           `json:"game_key_secret" bson:"game_key_secret"`
	GameKeyPublic string           `json:"game_key_public" bson:"game_key_public"`
	Status        string           `json:"status" bson:"status"`
	BoardWidth    int              `json:"board_width" bson:"board_width"`
	BoardHeight   int              `json:"board_height" bson:"board_height"`
	PlayerFirst   string           `json:"player_first" bson:"player_first"`
	PlayerSecond  string           `json:"player_second" bson:"player_second"`
	VsBot         bool             `json:"vs_bot" bson:"vs_bot"`
	Moves         []isolation.Move `json:"moves" bson:"moves"`
	Winner        string           `json:"winner,omitempty" bson:"winner,omitempty"`
	CreatedAt     time.Time        `json:"created_at" bson:"created_at"`
	StartedAt     *time.Time       `json:"started_at,omitempty" bson:"started_at,omitempty"`
	FinishedAt    *time.Time       `json:"finished_at,omitempty" bson:"finished_at,omitempty"`

	PlayerFirstWS  *websocket.Conn `json:"-" bson:"-"`
	PlayerSecondWS *websocket.Conn `json:"-" bson:"-"`
}

type CreateGameRequest struct {
	BoardWidth     int  `json:"board_width"`
	BoardHeight    int  `json:"board_height"`
	VsBot          bool `json:"vs_bot"`
	IsCreatorFirst bool `json:"is_creator_first"`
}

type GameCreateResponse struct {
	PublicKey string `json:"public_key"`
	SecretKey string `json:"secret_key"`
}

type GameJoinRequest struct {
	GameKey string `json:"game_key"`
	UserID  string `json:"user_id"`
}

// GameStateResponse рассылается по websocket после каждого хода.
type GameStateResponse struct {
	Move   isolation.Move `json:"move"`
	Mover  string         `json:"mover"`
	Board  string         `json:"board"`
	Status string         `json:"status"`
	Winner string         `json:"winner,omitempty"`
}
