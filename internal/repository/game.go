package repo

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"team_iso/internal/bootstrap"
	"team_iso/internal/domain/game"
	"team_iso/internal/domain/isolation"
	errs "team_iso/internal/errors"
	"team_iso/internal/statuses"
)

const liveStateTTL = 24 * time.Hour

type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func (g *GameRepository) games() *mongo.Collection {
	return g.mongo.Collection("games")
}

// GenerateGameKeys: секретный ключ — uuid, публичный — пятизначный
// код из md5 секрета, перегенерируется до уникальности.
func (g *GameRepository) GenerateGameKeys(ctx context.Context) (gameKeySecret string, gameKeyPublic string) {
	for {
		gameKeySecret = uuid.New().String()
		gameKeyPublic = generateHash(gameKeySecret)

		if g.CheckPublicKeyIsUniq(ctx, gameKeyPublic) {
			return gameKeySecret, gameKeyPublic
		}
	}
}

func generateHash(s string) string {
	h := md5.New()
	h.Write([]byte(s))
	hashBytes := h.Sum(nil)
	number := binary.BigEndian.Uint32(hashBytes[:4])
	code := number % 100000
	return fmt.Sprintf("%05d", code)
}

func (g *GameRepository) CheckPublicKeyIsUniq(ctx context.Context, gameKeyPublic string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"game_key_public": gameKeyPublic}
	err := g.games().FindOne(ctx, filter).Err()
	return errors.Is(err, mongo.ErrNoDocuments)
}

func (g *GameRepository) PutGame(ctx context.Context, gameData game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := g.games().InsertOne(ctx, gameData); err != nil {
		g.log.Errorf("failed to insert game: %v", err)
		return errs.ErrCreateGameFailed
	}

	g.log.Infof("game inserted with public key %s", gameData.GameKeyPublic)
	return nil
}

// AddPlayer занимает свободное кресло в партии.
func (g *GameRepository) AddPlayer(ctx context.Context, userID string, gameKeySecret string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	current, err := g.GetGameBySecretKey(ctx, gameKeySecret)
	if err != nil {
		return game.Game{}, err
	}

	update := bson.M{}
	switch {
	case current.PlayerFirst == "":
		update = bson.M{"$set": bson.M{"player_first": userID, "status": statuses.StatusActive}}
	case current.PlayerSecond == "" && current.PlayerFirst != userID:
		update = bson.M{"$set": bson.M{"player_second": userID, "status": statuses.StatusActive}}
	default:
		return game.Game{}, errs.ErrGameFull
	}

	filter := bson.M{"game_key_secret": gameKeySecret}
	if _, err := g.games().UpdateOne(ctx, filter, update); err != nil {
		g.log.Errorf("failed to add player: %v", err)
		return game.Game{}, errs.ErrJoinGameFailed
	}

	updated, err := g.GetGameBySecretKey(ctx, gameKeySecret)
	if err != nil {
		return game.Game{}, err
	}
	g.log.Infof("пользователь %s добавлен к игре %s", userID, updated.GameKeyPublic)
	return updated, nil
}

func (g *GameRepository) GetGameBySecretKey(ctx context.Context, gameKeySecret string) (game.Game, error) {
	var result game.Game
	err := g.games().FindOne(ctx, bson.M{"game_key_secret": gameKeySecret}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return game.Game{}, errs.ErrGameNotFound
		}
		return game.Game{}, fmt.Errorf("game lookup failed: %w", err)
	}
	return result, nil
}

func (g *GameRepository) GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result game.Game
	err := g.games().FindOne(ctx, bson.M{"game_key_public": gameKeyPublic}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return game.Game{}, errs.ErrGameNotFound
		}
		return game.Game{}, fmt.Errorf("game lookup failed: %w", err)
	}
	return result, nil
}

// HasUserActiveGameByUserId: игрок может состоять только в одной
// незавершённой партии.
func (g *GameRepository) HasUserActiveGameByUserId(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status": bson.M{"$ne": statuses.StatusFinished},
		"$or": bson.A{
			bson.M{"player_first": userID},
			bson.M{"player_second": userID},
		},
	}
	err := g.games().FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("active game lookup failed: %w", err)
	}
	return true, nil
}

// AppendMove дописывает ход в запись партии.
func (g *GameRepository) AppendMove(ctx context.Context, gameKeySecret string, move isolation.Move) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"game_key_secret": gameKeySecret}
	update := bson.M{"$push": bson.M{"moves": move}}
	res, err := g.games().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("append move failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrGameNotFound
	}
	return nil
}

func (g *GameRepository) FinishGame(ctx context.Context, gameKeySecret string, winner string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"game_key_secret": gameKeySecret}
	update := bson.M{"$set": bson.M{
		"status":      statuses.StatusFinished,
		"winner":      winner,
		"finished_at": time.Now(),
	}}
	res, err := g.games().UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("finish game failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrGameNotFound
	}
	return nil
}

// liveState — живое состояние партии в redis: позиция
// восстанавливается воспроизведением ходов.
type liveState struct {
	BoardWidth  int              `json:"board_width"`
	BoardHeight int              `json:"board_height"`
	Moves       []isolation.Move `json:"moves"`
}

func (g *GameRepository) SaveLiveState(ctx context.Context, gameKeySecret string, width, height int, moves []isolation.Move) error {
	payload, err := json.Marshal(liveState{BoardWidth: width, BoardHeight: height, Moves: moves})
	if err != nil {
		return fmt.Errorf("live state marshal failed: %w", err)
	}
	if err := g.redis.Set(ctx, liveKey(gameKeySecret), payload, liveStateTTL).Err(); err != nil {
		return fmt.Errorf("live state save failed: %w", err)
	}
	return nil
}

func (g *GameRepository) LoadLiveState(ctx context.Context, gameKeySecret string) (width, height int, moves []isolation.Move, err error) {
	payload, err := g.redis.Get(ctx, liveKey(gameKeySecret)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, 0, nil, errs.ErrGameNotFound
		}
		return 0, 0, nil, fmt.Errorf("live state load failed: %w", err)
	}
	var state liveState
	if err := json.Unmarshal(payload, &state); err != nil {
		return 0, 0, nil, fmt.Errorf("live state unmarshal failed: %w", err)
	}
	return state.BoardWidth, state.BoardHeight, state.Moves, nil
}

func liveKey(gameKeySecret string) string {
	return "live:" + gameKeySecret
}
