package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"synaptik/domain/event"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type BaseSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration and skips when no server is targeted.
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("E2E_SERVER_ADDR not set, skipping end to end suite")
	}
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Call sends a JSON request and decodes the JSON answer into out when out is not nil.
func (s *BaseSuite) Call(method, path, token string, body, out any) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	r, err := http.NewRequest(method, "http://"+s.Config.ServerAddr+path, reader)
	s.Require().NoError(err)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(r)
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	s.T().Logf("HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		s.T().Logf("RESPONSE: %s", raw)
	}
	if out != nil && len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

// Socket is one client connection to /ws.
type Socket struct {
	s      *BaseSuite
	conn   *websocket.Conn
	nextID int64
}

func (s *BaseSuite) Dial(token string) *Socket {
	u := url.URL{Scheme: "ws", Host: s.Config.ServerAddr, Path: "/ws", RawQuery: "token=" + url.QueryEscape(token)}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return &Socket{s: s, conn: conn}
}

// Request sends a frame with an ack id and waits for its ack, skipping other frames.
func (k *Socket) Request(name event.Name, payload any) event.Ack {
	k.nextID++
	id := k.nextID
	data, err := json.Marshal(payload)
	k.s.Require().NoError(err)
	k.s.Require().NoError(k.conn.WriteJSON(event.Frame{Event: name, Data: data, AckID: &id}))

	frame := k.Await(event.AckName, func(f event.Frame) bool { return f.AckID != nil && *f.AckID == id })
	var ack event.Ack
	k.s.Require().NoError(json.Unmarshal(frame.Data, &ack))
	return ack
}

// Await reads frames until one named name matches, or fails after five seconds.
func (k *Socket) Await(name event.Name, match func(event.Frame) bool) event.Frame {
	k.s.Require().NoError(k.conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for {
		var frame event.Frame
		k.s.Require().NoError(k.conn.ReadJSON(&frame), "waiting for %s", name)
		if k.s.Config.DebugJSON {
			k.s.T().Logf("FRAME %s %s", frame.Event, frame.Data)
		}
		if frame.Event == name && (match == nil || match(frame)) {
			return frame
		}
	}
}

// Health asks the ops server for the chat service status.
func (s *BaseSuite) Health(service string) healthpb.HealthCheckResponse_ServingStatus {
	conn, err := grpc.NewClient(s.Config.OpsAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err, "Failed to connect to gRPC server at "+s.Config.OpsAddr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	s.Require().NoError(err)
	return resp.GetStatus()
}
