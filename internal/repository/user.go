package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"team_iso/internal/adapters"
	"team_iso/internal/domain/user"
	errs "team_iso/internal/errors"
)

type MongoUserStorage struct {
	adapter *adapters.AdapterMongo
	log     *zap.SugaredLogger
}

func NewMongoUserStorage(adapter *adapters.AdapterMongo, log *zap.SugaredLogger) *MongoUserStorage {
	return &MongoUserStorage{adapter: adapter, log: log}
}

func (m *MongoUserStorage) users() *mongo.Collection {
	return m.adapter.Database.Collection("users")
}

func (m *MongoUserStorage) CheckExists(ctx context.Context, username string) bool {
	_, ok := m.GetUser(ctx, username)
	return ok
}

func (m *MongoUserStorage) GetUser(ctx context.Context, username string) (user.User, bool) {
	filter := bson.M{"username": username}

	var result user.User
	err := m.users().FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			m.log.Errorf("user lookup failed: %v", err)
		}
		return user.User{}, false
	}
	return result, true
}

func (m *MongoUserStorage) GetUserByID(ctx context.Context, id string) (user.User, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.User{}, false
	}

	var result user.User
	err = m.users().FindOne(ctx, bson.M{"_id": oid}).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			m.log.Errorf("user lookup by id failed: %v", err)
		}
		return user.User{}, false
	}
	return result, true
}

func (m *MongoUserStorage) CreateUser(ctx context.Context, username, email, passwordHash string) (user.User, error) {
	if _, found := m.GetUser(ctx, username); found {
		return user.User{}, errs.ErrUserExists
	}

	newUser := user.User{
		Username:     username,
		Email:        email,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		PasswordHash: passwordHash,
	}
	result, err := m.users().InsertOne(ctx, newUser)
	if err != nil {
		m.log.Errorf("user insert failed: %v", err)
		return user.User{}, errs.ErrInternal
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newUser.ID = oid.Hex()
	}
	return newUser, nil
}

func (m *MongoUserStorage) AddWin(ctx context.Context, userID string) error {
	return m.bumpStat(ctx, userID, "statistic.wins")
}

func (m *MongoUserStorage) AddLose(ctx context.Context, userID string) error {
	return m.bumpStat(ctx, userID, "statistic.losses")
}

func (m *MongoUserStorage) bumpStat(ctx context.Context, userID string, field string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return errs.ErrUserNotFound
	}
	update := bson.M{
		"$inc": bson.M{field: 1},
		"$set": bson.M{"updated_at": time.Now()},
	}
	res, err := m.users().UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		m.log.Errorf("user stat update failed: %v", err)
		return errs.ErrInternal
	}
	if res.MatchedCount == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}
