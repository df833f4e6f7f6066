package game

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	gameDomain "team_iso/internal/domain/game"
	"team_iso/internal/statuses"
)

func resetActiveGames() {
	activeGamesMu.Lock()
	activeGames = make(map[string]*gameDomain.Game)
	activeGamesMu.Unlock()
}

func TestAttachSeatRefreshesAfterJoin(t *testing.T) {
	resetActiveGames()

	created := gameDomain.Game{
		GameKeySecret: "secret-1",
		GameKeyPublic: "00001",
		PlayerFirst:   "u1",
		Status:        statuses.StatusWaitOpponent,
	}
	ag, playerWS, _, ok := attachSeat("00001", created, "u1")
	require.True(t, ok)
	assert.Same(t, &ag.PlayerFirstWS, playerWS)

	// u2 присоединился уже после того, как u1 открыл сокет:
	// кэш должен подтянуть свежую запись, а не отбрасывать игрока
	joined := created
	joined.PlayerSecond = "u2"
	joined.Status = statuses.StatusActive

	ag2, playerWS2, opponentWS2, ok := attachSeat("00001", joined, "u2")
	require.True(t, ok)
	assert.Same(t, ag, ag2)
	assert.Equal(t, "u2", ag2.PlayerSecond)
	assert.Equal(t, statuses.StatusActive, ag2.Status)
	assert.Same(t, &ag2.PlayerSecondWS, playerWS2)
	assert.Same(t, &ag2.PlayerFirstWS, opponentWS2)

	// посторонний кресла не получает
	_, _, _, ok = attachSeat("00001", joined, "stranger")
	assert.False(t, ok)
}

func TestForgetGameEvictsEntry(t *testing.T) {
	resetActiveGames()

	play := gameDomain.Game{GameKeyPublic: "00002", PlayerFirst: "u1", PlayerSecond: "u2"}
	_, _, _, ok := attachSeat("00002", play, "u1")
	require.True(t, ok)

	forgetGame("00002")

	activeGamesMu.RLock()
	_, cached := activeGames["00002"]
	activeGamesMu.RUnlock()
	assert.False(t, cached)
}

// newConnPair поднимает websocket и отдаёт серверный и клиентский концы.
func newConnPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()
	accepted := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error("upgrade:", err)
			return
		}
		accepted <- c
	}))
	t.Cleanup(srv.Close)

	client, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { client.Close() })

	server := <-accepted
	t.Cleanup(func() { server.Close() })
	return server, client
}

func drainClient(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func TestBroadcastSerializesWritesToSharedConn(t *testing.T) {
	g := &GameHandler{log: zap.NewNop().Sugar()}

	firstConn, firstClient := newConnPair(t)
	secondConn, secondClient := newConnPair(t)
	go drainClient(firstClient)
	go drainClient(secondClient)

	first, second := firstConn, secondConn
	state := gameDomain.GameStateResponse{Mover: "u1", Status: statuses.StatusActive}

	// цикл каждого игрока пишет в свой сокет и в сокет соперника;
	// оба конца под нагрузкой с двух горутин одновременно
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			g.broadcast(firstConn, &second, state)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			g.broadcast(secondConn, &first, state)
		}
	}()
	wg.Wait()

	// ни одна запись не упала, соединения не сброшены
	assert.NotNil(t, first)
	assert.NotNil(t, second)
}
