package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	userDomain "team_iso/internal/domain/user"
	errs "team_iso/internal/errors"
	"team_iso/internal/random"
)

type UserStorage interface {
	CheckExists(ctx context.Context, username string) bool
	GetUser(ctx context.Context, username string) (userDomain.User, bool)
	GetUserByID(ctx context.Context, id string) (userDomain.User, bool)
	CreateUser(ctx context.Context, username, email, passwordHash string) (userDomain.User, error)
	AddWin(ctx context.Context, userID string) error
	AddLose(ctx context.Context, userID string) error
}

type SessionStorage interface {
	GetUserIdBySession(ctx context.Context, sessionID string) (userID string, ok bool)
	StoreSession(ctx context.Context, sessionID string, userID string)
	DeleteSession(ctx context.Context, sessionID string) (ok bool)
}

type AuthUsecaseHandler struct {
	userStorage    UserStorage
	sessionStorage SessionStorage
}

func NewUserUsecaseHandler(u UserStorage, s SessionStorage) *AuthUsecaseHandler {
	return &AuthUsecaseHandler{
		userStorage:    u,
		sessionStorage: s,
	}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (a *AuthUsecaseHandler) RegisterUser(ctx context.Context, username, email, password string) (sessionID string, err error) {
	newUser, err := a.userStorage.CreateUser(ctx, username, email, hashPassword(password))
	if err != nil {
		return "", err
	}
	sessionID = random.RandString(64)
	a.sessionStorage.StoreSession(ctx, sessionID, newUser.ID)
	return sessionID, nil
}

func (a *AuthUsecaseHandler) LoginUser(ctx context.Context, providedUsername string, providedPassword string) (sessionID string, err error) {
	userFromDb, exists := a.userStorage.GetUser(ctx, providedUsername)
	if !exists {
		return "", errs.ErrUserNotFound
	}
	if hashPassword(providedPassword) != userFromDb.PasswordHash {
		return "", errs.ErrWrongPassword
	}
	sessionID = random.RandString(64)
	a.sessionStorage.StoreSession(ctx, sessionID, userFromDb.ID)
	return sessionID, nil
}

// LogoutUser возвращает nil или ErrSessionNotFound.
func (a *AuthUsecaseHandler) LogoutUser(ctx context.Context, sessionID string) (err error) {
	_, ok := a.sessionStorage.GetUserIdBySession(ctx, sessionID)
	if !ok {
		return errs.ErrSessionNotFound
	}
	if ok = a.sessionStorage.DeleteSession(ctx, sessionID); !ok {
		return errs.ErrSessionNotFound
	}
	return nil
}

func (a *AuthUsecaseHandler) GetUserIdFromSession(ctx context.Context, sessionID string) (string, error) {
	userID, ok := a.sessionStorage.GetUserIdBySession(ctx, sessionID)
	if !ok {
		return "", errs.ErrSessionNotFound
	}
	return userID, nil
}

func (a *AuthUsecaseHandler) CheckAuthorized(ctx context.Context, sessionID string) (ok bool, user userDomain.User) {
	userID, found := a.sessionStorage.GetUserIdBySession(ctx, sessionID)
	if !found {
		return false, userDomain.User{}
	}
	user, ok = a.userStorage.GetUserByID(ctx, userID)
	if !ok {
		return false, userDomain.User{}
	}
	return ok, user
}

func (a *AuthUsecaseHandler) GetUserByID(ctx context.Context, userID string) (userDomain.User, bool) {
	return a.userStorage.GetUserByID(ctx, userID)
}

func (a *AuthUsecaseHandler) AddWin(ctx context.Context, userID string) error {
	return a.userStorage.AddWin(ctx, userID)
}

func (a *AuthUsecaseHandler) AddLose(ctx context.Context, userID string) error {
	return a.userStorage.AddLose(ctx, userID)
}
