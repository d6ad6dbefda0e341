package websocket

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator map[string]chat.Identity

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (chat.Identity, error) {
	identity, ok := s[token]
	if !ok {
		return chat.Identity{}, errors.Unauthorized("Unauthorized request")
	}
	return identity, nil
}

type fixture struct {
	server  *httptest.Server
	rooms   *runtime.RoomManager
	metrics *observability.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	rooms := runtime.NewRoomManager()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	fanout := runtime.NewEventFanout(log, rooms, metrics, time.Second)
	authenticator := stubAuthenticator{
		"token-u1": {ID: "u1", Username: "alice"},
		"token-u2": {ID: "u2", Username: "bob"},
	}
	gateway := NewGateway(log, authenticator, rooms, fanout, metrics, Config{
		CookieName:  "accessToken",
		BufferSize:  16,
		PingTimeout: time.Minute,
	})
	server := httptest.NewServer(gateway)
	t.Cleanup(server.Close)
	return fixture{server: server, rooms: rooms, metrics: metrics}
}

func (f fixture) dial(t *testing.T, query string, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) event.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame event.Frame
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func send(t *testing.T, conn *websocket.Conn, name event.Name, data string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"`+string(name)+`","data":`+data+`}`)))
}

func TestGateway_Handshake_Without_Credential(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// When a client connects without any credential
	conn := f.dial(t, "", nil)

	// Then it only receives a socket-error and is closed
	frame := readFrame(t, conn)
	req.Equal(event.SocketErrorName, frame.Event)
	req.JSONEq(`{"message":"Unauthorized request"}`, string(frame.Data))

	_, _, err := conn.ReadMessage()
	req.Error(err)
	req.Equal(0, f.rooms.Connections())
	req.Equal(1.0, testutil.ToFloat64(f.metrics.Handshakes.WithLabelValues(observability.ResultRejected)))
}

func TestGateway_Handshake_With_Invalid_Token(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	conn := f.dial(t, "?token=forged", nil)

	frame := readFrame(t, conn)
	req.Equal(event.SocketErrorName, frame.Event)
	req.Nil(f.rooms.Sinks(chat.UserRoom("u1")))
}

func TestGateway_Handshake_Success(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// Given a valid cookie and an invalid query token, the cookie wins
	header := http.Header{}
	header.Add("Cookie", "accessToken=token-u1")
	conn := f.dial(t, "?token=forged", header)

	frame := readFrame(t, conn)
	req.Equal(event.ConnectedName, frame.Event)
	req.JSONEq(`{"userId":"u1"}`, string(frame.Data))
	req.Len(f.rooms.Sinks(chat.UserRoom("u1")), 1)
	req.Equal(1.0, testutil.ToFloat64(f.metrics.Handshakes.WithLabelValues(observability.ResultAccepted)))
}

func TestGateway_Bearer_Header(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	conn := f.dial(t, "", http.Header{"Authorization": []string{"Bearer token-u2"}})

	frame := readFrame(t, conn)
	req.Equal(event.ConnectedName, frame.Event)
	req.JSONEq(`{"userId":"u2"}`, string(frame.Data))
}

func TestGateway_Typing_Is_Relayed_To_Other_Members(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	chatID := "5b0f0f0e-4a3c-4a55-9c53-cb3b1c2e7c10"

	alice := f.dial(t, "?token=token-u1", nil)
	bob := f.dial(t, "?token=token-u2", nil)
	req.Equal(event.ConnectedName, readFrame(t, alice).Event)
	req.Equal(event.ConnectedName, readFrame(t, bob).Event)

	// Given both joined the chat room
	send(t, alice, event.JoinChatName, `{"chatId":"`+chatID+`"}`)
	send(t, bob, event.JoinChatName, `"`+chatID+`"`)
	req.Eventually(func() bool {
		return len(f.rooms.Sinks(chat.ChatRoom(chat.ChatID(chatID)))) == 2
	}, time.Second, 10*time.Millisecond)

	// When alice starts typing
	send(t, alice, event.TypingStartName, `{"chatId":"`+chatID+`"}`)

	// Then bob is told
	frame := readFrame(t, bob)
	req.Equal(event.TypingStartName, frame.Event)
	req.JSONEq(`{"chatId":"`+chatID+`"}`, string(frame.Data))

	send(t, alice, event.TypingStopName, `{"chatId":"`+chatID+`"}`)
	req.Equal(event.TypingStopName, readFrame(t, bob).Event)

	// And alice never receives her own signal
	req.NoError(alice.SetReadDeadline(time.Now().Add(100 * time.Millisecond)))
	_, _, err := alice.ReadMessage()
	req.Error(err)
}

func TestGateway_Invalid_Frame_Answers_Socket_Error(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	conn := f.dial(t, "?token=token-u1", nil)
	req.Equal(event.ConnectedName, readFrame(t, conn).Event)

	send(t, conn, "message-received", `{}`)

	frame := readFrame(t, conn)
	req.Equal(event.SocketErrorName, frame.Event)

	// And the connection is still usable
	send(t, conn, event.JoinChatName, `{"chatId":"c1"}`)
	req.Eventually(func() bool {
		return len(f.rooms.Sinks(chat.ChatRoom("c1"))) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGateway_Disconnect_Tears_Down_Session(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	conn := f.dial(t, "?token=token-u1", nil)
	req.Equal(event.ConnectedName, readFrame(t, conn).Event)
	send(t, conn, event.JoinChatName, `{"chatId":"c1"}`)

	// When the client disconnects
	send(t, conn, event.DisconnectName, `{}`)

	// Then no room keeps the connection
	req.Eventually(func() bool {
		return f.rooms.Connections() == 0
	}, time.Second, 10*time.Millisecond)
	req.Nil(f.rooms.Sinks(chat.UserRoom("u1")))
	req.Nil(f.rooms.Sinks(chat.ChatRoom("c1")))
}
