package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relvane/botsessions/internal/domain"
	"github.com/relvane/botsessions/internal/ports"
)

func newGatewayServer(t *testing.T, handle func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		handle(conn)
	}))
	t.Cleanup(server.Close)

	return server
}

func dialTest(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	client, err := Dial(context.Background(), domain.Settings{
		SignServerAddr:    server.URL,
		ReconnectInterval: 40 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	var received frame
	if err := conn.ReadJSON(&received); err != nil {
		t.Errorf("read frame: %v", err)
	}
	return received
}

func TestDialSendsConfigureFrame(t *testing.T) {
	configured := make(chan frame, 1)
	server := newGatewayServer(t, func(conn *websocket.Conn) {
		configured <- readFrame(t, conn)
	})

	client, err := Dial(context.Background(), domain.Settings{
		SignServerAddr:    server.URL,
		ReconnectInterval: 25 * time.Second,
		MediaToolPath:     "/opt/media",
	})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	select {
	case received := <-configured:
		assert.Equal(t, "configure", received.Op)
		assert.Equal(t, int64(25), received.ReconnectSeconds)
		assert.Equal(t, "/opt/media", received.MediaToolPath)
	case <-time.After(5 * time.Second):
		t.Fatal("configure frame never arrived")
	}
}

func TestConnectResolvesOnline(t *testing.T) {
	server := newGatewayServer(t, func(conn *websocket.Conn) {
		_ = readFrame(t, conn) // configure

		login := readFrame(t, conn)
		assert.Equal(t, "login", login.Op)
		assert.Equal(t, "1001", login.ID)
		assert.Equal(t, "hunter2", login.Secret)

		_ = conn.WriteJSON(frame{Event: "online", ID: "1001"})

		// Keep the connection open for the read pump.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	client := dialTest(t, server)

	step, err := client.Connect(context.Background(), "1001", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, ports.StateOnline, step.State)
	assert.Equal(t, "1001", client.Identifier())
	assert.True(t, client.IsOnline())
}

func TestConnectSliderChallengeRoundTrip(t *testing.T) {
	server := newGatewayServer(t, func(conn *websocket.Conn) {
		_ = readFrame(t, conn) // configure
		_ = readFrame(t, conn) // login
		_ = conn.WriteJSON(frame{Event: "slider", URL: "https://challenge.example/slider"})

		submit := readFrame(t, conn)
		assert.Equal(t, "submit_slider", submit.Op)
		assert.Equal(t, "ticket-abc", submit.Ticket)
		_ = conn.WriteJSON(frame{Event: "online", ID: "1001"})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	client := dialTest(t, server)

	step, err := client.Connect(context.Background(), "1001", "hunter2")
	require.NoError(t, err)
	require.Equal(t, ports.StateSliderChallenge, step.State)
	assert.Equal(t, "https://challenge.example/slider", step.URL)
	assert.False(t, client.IsOnline())

	step, err = client.SubmitSlider(context.Background(), "ticket-abc")
	require.NoError(t, err)
	assert.Equal(t, ports.StateOnline, step.State)
	assert.True(t, client.IsOnline())
}

func TestConnectDeviceChallengeSMS(t *testing.T) {
	server := newGatewayServer(t, func(conn *websocket.Conn) {
		_ = readFrame(t, conn) // configure
		_ = readFrame(t, conn) // login
		_ = conn.WriteJSON(frame{Event: "device", URL: "https://challenge.example/qr"})

		sms := readFrame(t, conn)
		assert.Equal(t, "send_sms", sms.Op)

		submit := readFrame(t, conn)
		assert.Equal(t, "submit_sms", submit.Op)
		assert.Equal(t, "123456", submit.Code)
		_ = conn.WriteJSON(frame{Event: "online", ID: "1002"})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	client := dialTest(t, server)

	step, err := client.Connect(context.Background(), "1002", "hunter2")
	require.NoError(t, err)
	require.Equal(t, ports.StateDeviceChallenge, step.State)

	require.NoError(t, client.SendSMSCode(context.Background()))

	step, err = client.SubmitSMSCode(context.Background(), "123456")
	require.NoError(t, err)
	assert.Equal(t, ports.StateOnline, step.State)
}

func TestConnectRejection(t *testing.T) {
	server := newGatewayServer(t, func(conn *websocket.Conn) {
		_ = readFrame(t, conn) // configure
		_ = readFrame(t, conn) // login
		_ = conn.WriteJSON(frame{Event: "error", Message: "bad credentials"})
	})

	client := dialTest(t, server)

	_, err := client.Connect(context.Background(), "1003", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad credentials")
	assert.False(t, client.IsOnline())
}

func TestOfflineEventDropsLiveness(t *testing.T) {
	server := newGatewayServer(t, func(conn *websocket.Conn) {
		_ = readFrame(t, conn) // configure
		_ = readFrame(t, conn) // login
		_ = conn.WriteJSON(frame{Event: "online", ID: "1001"})
		_ = conn.WriteJSON(frame{Event: "offline"})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	client := dialTest(t, server)

	_, err := client.Connect(context.Background(), "1001", "hunter2")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return !client.IsOnline()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSessionURL(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{name: "bare host", addr: "gateway.example:8080", want: "ws://gateway.example:8080/session"},
		{name: "http scheme", addr: "http://gateway.example", want: "ws://gateway.example/session"},
		{name: "https scheme", addr: "https://gateway.example", want: "wss://gateway.example/session"},
		{name: "explicit path kept", addr: "ws://gateway.example/custom", want: "ws://gateway.example/custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sessionURL(tt.addr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := sessionURL("")
	require.Error(t, err)
}
