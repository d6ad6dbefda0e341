// Package websocket is the Connection Gateway: it authenticates live
// connections and relays realtime events between them and the rooms they joined.
package websocket

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait          = 10 * time.Second
	defaultPingTimeout = 60 * time.Second
	maxMessageSize     = 64 * 1024

	handshakeFailedMessage = "Something went wrong while connecting to the socket"
)

type Config struct {
	CookieName      string
	BufferSize      int
	PingTimeout     time.Duration
	FramesPerSecond float64
	FrameBurst      int
	AllowedOrigins  []string
}

type Gateway struct {
	log           *slog.Logger
	authenticator auth.Authenticator
	rooms         contract.IRoomManager
	fanout        *runtime.EventFanout
	metrics       *observability.Metrics
	config        Config
	upgrader      websocket.Upgrader
}

func NewGateway(log *slog.Logger, authenticator auth.Authenticator, rooms contract.IRoomManager,
	fanout *runtime.EventFanout, metrics *observability.Metrics, config Config) *Gateway {
	g := &Gateway{
		log:           log,
		authenticator: authenticator,
		rooms:         rooms,
		fanout:        fanout,
		metrics:       metrics,
		config:        config,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

// checkOrigin accepts clients without Origin header and the configured origins.
func (g *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(g.config.AllowedOrigins) == 0 || slices.Contains(g.config.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(g.config.AllowedOrigins, origin)
}

// ServeHTTP upgrades the request then runs the handshake on the live connection.
// A failed handshake is answered with a single socket-error event before closing.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("Websocket upgrade failed", "error", err)
		return
	}

	identity, err := g.handshake(r)
	if err != nil {
		g.count(observability.ResultRejected)
		g.reject(conn, err)
		return
	}
	g.count(observability.ResultAccepted)
	newConnection(g, conn, identity).serve(r.Context())
}

func (g *Gateway) handshake(r *http.Request) (chat.Identity, error) {
	token := auth.CredentialFromRequest(r, g.config.CookieName)
	if token == "" {
		return chat.Identity{}, errors.Unauthorized("Unauthorized request")
	}
	return g.authenticator.Authenticate(r.Context(), token)
}

func (g *Gateway) reject(conn *websocket.Conn, err error) {
	defer func() { _ = conn.Close() }()
	message := handshakeFailedMessage
	if errors.Is(err, errors.KindUnauthorized) {
		message = errors.MessageOf(err)
	}
	g.log.Debug("Handshake rejected", "error", err)

	data, encodeErr := event.Encode(event.SocketError{Message: message})
	if encodeErr != nil {
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err = conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, message))
}

func (g *Gateway) count(result string) {
	if g.metrics != nil {
		g.metrics.Handshakes.WithLabelValues(result).Inc()
	}
}

func (g *Gateway) newLimiter() *rate.Limiter {
	if g.config.FramesPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(g.config.FramesPerSecond), g.config.FrameBurst)
}

// relay pushes a signal to every other connection of a room.
func (g *Gateway) relay(ctx context.Context, room chat.RoomName, from contract.ConnectionID, e event.DomainEvent) {
	sinks := g.rooms.SinksExcept(room, from)
	if len(sinks) == 0 {
		return
	}
	g.fanout.Fanout(ctx, sinks, e)
}
