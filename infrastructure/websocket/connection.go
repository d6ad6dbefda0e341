package websocket

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/sink"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// connection is the session of one authenticated live connection.
// Frames are read by a single goroutine, in arrival order.
type connection struct {
	id          contract.ConnectionID
	identity    chat.Identity
	gateway     *Gateway
	conn        *websocket.Conn
	sink        *sink.ConnectionSink
	limiter     *rate.Limiter
	log         *slog.Logger
	pingTimeout time.Duration
	writerDone  chan struct{}
}

func newConnection(g *Gateway, conn *websocket.Conn, identity chat.Identity) *connection {
	id := contract.ConnectionID(uuid.NewString())
	pingTimeout := g.config.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	return &connection{
		id:          id,
		identity:    identity,
		gateway:     g,
		conn:        conn,
		sink:        sink.NewConnectionSink(g.log, max(1, g.config.BufferSize)),
		limiter:     g.newLimiter(),
		log:         g.log.With("user_id", identity.ID, "connection_id", id),
		pingTimeout: pingTimeout,
		writerDone:  make(chan struct{}),
	}
}

// serve binds the session, joins the personal room and blocks until the connection ends.
func (c *connection) serve(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	// The acknowledgment is queued first so it precedes any room event.
	if err := c.sink.Consume(ctx, event.Connected{UserID: c.identity.ID}); err != nil {
		c.log.Warn("Unable to acknowledge connection", "error", err)
	}
	rooms := c.gateway.rooms
	rooms.Register(c.id, c.identity.ID, c.sink)
	rooms.Join(c.id, chat.UserRoom(c.identity.ID))
	c.log.Info("Connection established")

	go c.writePump()

	c.readPump(ctx)

	rooms.Unregister(c.id)
	c.sink.Close()
	<-c.writerDone
	_ = c.conn.Close()
	c.log.Info("Connection closed")
}

// readPump pumps frames from the websocket connection to the rooms
func (c *connection) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(c.pingTimeout)); err != nil {
		c.log.Error("Failed to set read deadline", "error", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pingTimeout))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Unexpected websocket close", "error", err)
			}
			return
		}
		if !c.limiter.Allow() {
			c.log.Warn("Frame rate exceeded, dropping frame")
			continue
		}
		in, err := event.Decode(raw)
		if err != nil {
			c.log.Debug("Invalid frame", "error", err)
			c.reply(ctx, event.SocketError{Message: "Invalid event"})
			continue
		}
		if !c.handle(ctx, in) {
			return
		}
	}
}

// handle returns false once the client asked to disconnect.
func (c *connection) handle(ctx context.Context, in event.Inbound) bool {
	switch e := in.(type) {
	case event.JoinChat:
		c.gateway.rooms.Join(c.id, chat.ChatRoom(e.ChatID))
		c.log.Debug("Joined chat", "chat_id", e.ChatID)
	case event.TypingStart:
		c.gateway.relay(ctx, chat.ChatRoom(e.ChatID), c.id, event.TypingStarted{ChatID: e.ChatID})
	case event.TypingStop:
		c.gateway.relay(ctx, chat.ChatRoom(e.ChatID), c.id, event.TypingStopped{ChatID: e.ChatID})
	case event.Disconnect:
		c.gateway.rooms.Leave(c.id, chat.UserRoom(c.identity.ID))
		c.log.Debug("Client asked to disconnect")
		return false
	}
	return true
}

func (c *connection) reply(ctx context.Context, e event.DomainEvent) {
	if err := c.sink.Consume(ctx, e); err != nil {
		c.log.Debug("Reply dropped", "event", e.Name(), "error", err)
	}
}

// writePump pumps events from the sink to the websocket connection
func (c *connection) writePump() {
	ticker := time.NewTicker(c.pingTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		close(c.writerDone)
	}()

	for {
		select {
		case e := <-c.sink.Events():
			data, err := event.Encode(e)
			if err != nil {
				c.log.Error("Failed to encode event", "event", e.Name(), "error", err)
				continue
			}
			if err = c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err = c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Warn("Failed to write event", "event", e.Name(), "error", err)
				return
			}
		case <-c.sink.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
