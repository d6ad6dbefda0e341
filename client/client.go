package main

import (
	"chat-relay/domain/event"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=ws://localhost:8080/ws"`
	AccessToken   string `env:"CHAT_ACCESS_TOKEN,required=true"`
	ChatID        string `env:"CHAT_ID"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run connects to the gateway, joins the configured chat and prints every
// event it receives until interrupted.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+config.AccessToken)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerAddress, header)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	if config.ChatID != "" {
		if err = send(conn, event.JoinChatName, map[string]string{"chatId": config.ChatID}); err != nil {
			return exitRuntime, fmt.Errorf("join chat: %w", err)
		}
	}

	frames := make(chan event.Frame)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			var frame event.Frame
			if err := json.Unmarshal(raw, &frame); err != nil {
				log.Warn("Unreadable frame", "error", err)
				continue
			}
			frames <- frame
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping client...")
			return exitOK, nil
		case err := <-readErr:
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("connection error: %w", err)
		case frame := <-frames:
			log.Info(fmt.Sprintf("[%s] %s: %s", time.Now().Format(time.TimeOnly), frame.Event, string(frame.Data)))
			if frame.Event == event.SocketErrorName {
				return exitRuntime, fmt.Errorf("server refused the connection: %s", string(frame.Data))
			}
		}
	}
}

func send(conn *websocket.Conn, name event.Name, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(event.Frame{Event: name, Data: payload})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, raw)
}
