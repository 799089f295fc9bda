package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrtravel/server/internal/protocol"
	catalogInmemory "github.com/vrtravel/server/internal/repository/catalog/inmemory"
	connInmemory "github.com/vrtravel/server/internal/repository/connection/inmemory"
	"github.com/vrtravel/server/internal/service/room"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	roomService := room.NewService(&room.Config{}, slog.Default())
	t.Cleanup(roomService.Shutdown)

	ctrl := NewController(
		roomService,
		catalogInmemory.NewRepo(),
		connInmemory.NewRepo(32),
		&Config{HandshakeTimeout: 2 * time.Second},
		slog.Default(),
	)

	srv := httptest.NewServer(ctrl.GetMux())
	t.Cleanup(srv.Close)

	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestVideoEndpoints(t *testing.T) {
	srv := newTestAPI(t)

	resp, err := http.Get(srv.URL + "/api/v1/videos")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Len(t, body["data"], 6)

	resp, err = http.Get(srv.URL + "/api/v1/videos/tokyo-360")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	video := body["data"].(map[string]any)
	assert.Equal(t, "Tokyo Street View 360°", video["title"])

	resp, err = http.Get(srv.URL + "/api/v1/videos/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRoomEndpoints(t *testing.T) {
	srv := newTestAPI(t)

	// invalid input
	resp := postJSON(t, srv.URL+"/api/v1/rooms", map[string]any{
		"videoId":         "tokyo-360",
		"maxParticipants": 4,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// private room without password
	resp = postJSON(t, srv.URL+"/api/v1/rooms", map[string]any{
		"name":            "secret",
		"videoId":         "tokyo-360",
		"maxParticipants": 4,
		"isPrivate":       true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// unknown video
	resp = postJSON(t, srv.URL+"/api/v1/rooms", map[string]any{
		"name":            "nowhere",
		"videoId":         "missing",
		"maxParticipants": 4,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// valid create
	resp = postJSON(t, srv.URL+"/api/v1/rooms", map[string]any{
		"name":            "tokyo night",
		"description":     "evening walk",
		"videoId":         "tokyo-360",
		"hostName":        "alice",
		"maxParticipants": 4,
		"isPrivate":       true,
		"password":        "hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)["data"].(map[string]any)
	roomId := created["id"].(string)
	assert.Len(t, roomId, 8)
	// the password never leaves the server
	_, leaked := created["password"]
	assert.False(t, leaked)

	// listing shows the room with zero live participants
	resp, err := http.Get(srv.URL + "/api/v1/rooms")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rooms := decodeBody(t, resp)["data"].([]any)
	require.Len(t, rooms, 1)
	listing := rooms[0].(map[string]any)
	assert.Equal(t, roomId, listing["id"])
	assert.Equal(t, float64(0), listing["participants"])

	resp, err = http.Get(srv.URL + "/api/v1/rooms/" + roomId)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/rooms/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// join gate
	resp = postJSON(t, srv.URL+"/api/v1/rooms/missing/join", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+fmt.Sprintf("/api/v1/rooms/%s/join", roomId), map[string]any{
		"password": "wrong",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+fmt.Sprintf("/api/v1/rooms/%s/join", roomId), map[string]any{
		"password": "hunter2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
}

func dialWS(t *testing.T, srv *httptest.Server, roomId, userId string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	join, err := protocol.Encode(&protocol.JoinRoom{
		RoomId: roomId,
		User:   protocol.User{Id: userId, Name: userId},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, join))

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) protocol.Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	msg, err := protocol.Decode(frame)
	require.NoError(t, err)
	return msg
}

func TestRoomSessionFlow(t *testing.T) {
	srv := newTestAPI(t)

	// first member becomes host
	conn1 := dialWS(t, srv, "room-1", "u1")
	msg := readMessage(t, conn1)
	joined1, ok := msg.(*protocol.RoomJoined)
	require.True(t, ok)
	assert.True(t, joined1.IsHost)
	assert.Len(t, joined1.Participants, 1)
	assert.Equal(t, protocol.DefaultSyncState(), joined1.VideoState)

	// second member is not, and the first is notified
	conn2 := dialWS(t, srv, "room-1", "u2")
	joined2 := readMessage(t, conn2).(*protocol.RoomJoined)
	assert.False(t, joined2.IsHost)
	assert.Len(t, joined2.Participants, 2)

	userJoined := readMessage(t, conn1).(*protocol.UserJoined)
	assert.Equal(t, "u2", userJoined.User.Id)
	assert.False(t, userJoined.User.IsHost)

	// non-host sync intents are dropped, not relayed
	isPlaying := true
	nonHostSync, err := protocol.Encode(&protocol.VideoSync{
		Action:      protocol.ActionPlayPause,
		IsPlaying:   &isPlaying,
		CurrentTime: 5,
		UserId:      "u2",
		RoomId:      "room-1",
	})
	require.NoError(t, err)
	require.NoError(t, conn2.WriteMessage(websocket.TextMessage, nonHostSync))

	// chat from the same member still relays, and arrives without an
	// intervening video-sync
	chat, err := protocol.Encode(&protocol.ChatMessage{
		Message:   "hello",
		UserId:    "u2",
		UserName:  "u2",
		RoomId:    "room-1",
		Timestamp: time.Now().UnixMilli(),
	})
	require.NoError(t, err)
	require.NoError(t, conn2.WriteMessage(websocket.TextMessage, chat))

	chatMsg, ok := readMessage(t, conn1).(*protocol.ChatMessage)
	require.True(t, ok, "expected the dropped sync to never reach the host")
	assert.Equal(t, "hello", chatMsg.Message)

	// host sync relays to the other member unmodified
	hostSync, err := protocol.Encode(&protocol.VideoSync{
		Action:      protocol.ActionSeek,
		CurrentTime: 42.5,
		UserId:      "u1",
		RoomId:      "room-1",
	})
	require.NoError(t, err)
	require.NoError(t, conn1.WriteMessage(websocket.TextMessage, hostSync))

	syncMsg := readMessage(t, conn2).(*protocol.VideoSync)
	assert.Equal(t, protocol.ActionSeek, syncMsg.Action)
	assert.Equal(t, 42.5, syncMsg.CurrentTime)

	// a third joiner sees the updated state in the snapshot
	conn3 := dialWS(t, srv, "room-1", "u3")
	joined3 := readMessage(t, conn3).(*protocol.RoomJoined)
	assert.Equal(t, 42.5, joined3.VideoState.CurrentTime)
	readMessage(t, conn1)
	readMessage(t, conn2)

	// host departure hands the room to the next oldest member
	leave, err := protocol.Encode(&protocol.LeaveRoom{RoomId: "room-1", UserId: "u1"})
	require.NoError(t, err)
	require.NoError(t, conn1.WriteMessage(websocket.TextMessage, leave))

	left := readMessage(t, conn2).(*protocol.UserLeft)
	assert.Equal(t, "u1", left.UserId)
	hostChanged := readMessage(t, conn2).(*protocol.HostChanged)
	assert.Equal(t, "u2", hostChanged.HostId)

	readMessage(t, conn3)
	hostChanged3 := readMessage(t, conn3).(*protocol.HostChanged)
	assert.Equal(t, "u2", hostChanged3.HostId)
}

func TestDuplicateMemberRejected(t *testing.T) {
	srv := newTestAPI(t)

	conn1 := dialWS(t, srv, "room-1", "u1")
	readMessage(t, conn1)

	// the second connection with the same id never gets a snapshot
	conn2 := dialWS(t, srv, "room-1", "u1")
	conn2.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn2.ReadMessage()
	assert.Error(t, err)
}

func TestSameMemberIdInDifferentRooms(t *testing.T) {
	srv := newTestAPI(t)

	conn1 := dialWS(t, srv, "room-1", "u1")
	joined1 := readMessage(t, conn1).(*protocol.RoomJoined)
	assert.True(t, joined1.IsHost)

	// the id being live in room-1 must not block room-2
	conn2 := dialWS(t, srv, "room-2", "u1")
	joined2 := readMessage(t, conn2).(*protocol.RoomJoined)
	assert.Equal(t, "room-2", joined2.RoomId)
	assert.True(t, joined2.IsHost)
	assert.Len(t, joined2.Participants, 1)
}

func TestHealthz(t *testing.T) {
	srv := newTestAPI(t)

	resp, err := http.Get(srv.URL + "/api/v1/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
