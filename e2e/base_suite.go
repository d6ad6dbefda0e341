package e2e

import (
	"bytes"
	"chat-relay/domain/event"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

type BaseSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.BaseURL == "" {
		s.T().Skip("E2E_BASE_URL not set, skipping end-to-end suite")
	}
	if s.Config.WsURL == "" {
		s.Config.WsURL = "ws" + strings.TrimPrefix(strings.TrimSuffix(s.Config.BaseURL, "/"), "http") + "/ws"
	}
	s.client = &http.Client{Timeout: 10 * time.Second}
}

// Step prints a colorized header for a scenario step
func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Call sends an authenticated JSON request and decodes the envelope
func (s *BaseSuite) Call(method, path, token string, body any) envelope {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, strings.TrimSuffix(s.Config.BaseURL, "/")+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.T().Logf("HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		s.T().Log(string(raw))
	}

	var out envelope
	s.Require().NoError(json.Unmarshal(raw, &out))
	return out
}

// Connect opens a live connection and waits for the connected acknowledgment
func (s *BaseSuite) Connect(token string) *websocket.Conn {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.Config.WsURL, header)
	s.Require().NoError(err)
	s.Require().Equal(event.ConnectedName, s.Next(conn).Event)
	return conn
}

// Next reads the next frame of a live connection
func (s *BaseSuite) Next(conn *websocket.Conn) event.Frame {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	_, raw, err := conn.ReadMessage()
	s.Require().NoError(err)
	var frame event.Frame
	s.Require().NoError(json.Unmarshal(raw, &frame))
	if s.Config.DebugJSON {
		s.T().Log(string(raw))
	}
	return frame
}
