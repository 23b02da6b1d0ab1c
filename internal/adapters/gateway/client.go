package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relvane/botsessions/internal/domain"
	"github.com/relvane/botsessions/internal/ports"
)

const (
	// Time allowed to write a frame to the gateway.
	writeWait = 10 * time.Second

	// Path of the session endpoint on the gateway daemon.
	sessionPath = "/session"
)

var errGatewayClosed = errors.New("gateway connection closed")

// frame is the JSON envelope exchanged with the protocol gateway. Requests
// carry an op; responses carry an event.
type frame struct {
	Op     string `json:"op,omitempty"`
	Event  string `json:"event,omitempty"`
	ID     string `json:"id,omitempty"`
	Secret string `json:"secret,omitempty"`
	Ticket string `json:"ticket,omitempty"`
	Code   string `json:"code,omitempty"`
	URL    string `json:"url,omitempty"`

	ReconnectSeconds int64  `json:"reconnect_seconds,omitempty"`
	MediaToolPath    string `json:"media_tool_path,omitempty"`
	Message          string `json:"message,omitempty"`
}

// Client speaks the gateway's JSON framing over a websocket. The actual wire
// handshake with the remote service happens inside the gateway daemon; this
// side only drives the login conversation and reports liveness.
type Client struct {
	conn       *websocket.Conn
	writeMu    sync.Mutex
	identifier atomic.Value // string
	online     atomic.Bool
	pumpOnce   sync.Once
}

var _ ports.Client = (*Client)(nil)

// Dial connects to the gateway daemon configured in settings and announces
// the per-deployment client options before any login is attempted.
func Dial(ctx context.Context, settings domain.Settings) (*Client, error) {
	endpoint, err := sessionURL(settings.SignServerAddr)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial gateway %s: %w", endpoint, err)
	}

	client := &Client{conn: conn}
	if err := client.write(frame{
		Op:               "configure",
		ReconnectSeconds: int64(settings.ReconnectInterval / time.Second),
		MediaToolPath:    settings.MediaToolPath,
	}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("configure gateway session: %w", err)
	}

	return client, nil
}

// NewFactory adapts Dial to the client factory port.
func NewFactory() ports.ClientFactory {
	return ports.ClientFactoryFunc(func(ctx context.Context, settings domain.Settings) (ports.Client, error) {
		return Dial(ctx, settings)
	})
}

func (c *Client) Identifier() string {
	if id, ok := c.identifier.Load().(string); ok {
		return id
	}
	return ""
}

func (c *Client) IsOnline() bool {
	return c.online.Load()
}

func (c *Client) Connect(ctx context.Context, id domain.AccountID, secret string) (ports.LoginStep, error) {
	c.identifier.Store(string(id))
	return c.roundTrip(ctx, frame{Op: "login", ID: string(id), Secret: secret})
}

func (c *Client) SubmitSlider(ctx context.Context, ticket string) (ports.LoginStep, error) {
	return c.roundTrip(ctx, frame{Op: "submit_slider", Ticket: ticket})
}

func (c *Client) Resume(ctx context.Context) (ports.LoginStep, error) {
	return c.roundTrip(ctx, frame{Op: "resume"})
}

func (c *Client) SendSMSCode(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.write(frame{Op: "send_sms"})
}

func (c *Client) SubmitSMSCode(ctx context.Context, code string) (ports.LoginStep, error) {
	return c.roundTrip(ctx, frame{Op: "submit_sms", Code: code})
}

func (c *Client) Close() error {
	c.online.Store(false)
	return c.conn.Close()
}

// roundTrip sends one op and blocks until the gateway reports the next login
// step. Reads carry no deadline of their own: challenge resolution can take
// as long as the remote side needs, bounded only by ctx.
func (c *Client) roundTrip(ctx context.Context, request frame) (ports.LoginStep, error) {
	if err := ctx.Err(); err != nil {
		return ports.LoginStep{}, err
	}

	if err := c.write(request); err != nil {
		return ports.LoginStep{}, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(deadline)
	} else {
		_ = c.conn.SetReadDeadline(time.Time{})
	}

	var response frame
	if err := c.conn.ReadJSON(&response); err != nil {
		return ports.LoginStep{}, fmt.Errorf("read gateway event: %w", err)
	}

	return c.toStep(response)
}

func (c *Client) toStep(response frame) (ports.LoginStep, error) {
	switch response.Event {
	case "online":
		if response.ID != "" {
			c.identifier.Store(response.ID)
		}
		c.online.Store(true)
		c.pumpOnce.Do(func() { go c.readPump() })
		return ports.LoginStep{State: ports.StateOnline}, nil
	case "slider":
		return ports.LoginStep{State: ports.StateSliderChallenge, URL: response.URL}, nil
	case "qrcode":
		return ports.LoginStep{State: ports.StateQRCodeChallenge, URL: response.URL}, nil
	case "device":
		return ports.LoginStep{State: ports.StateDeviceChallenge, URL: response.URL}, nil
	case "error":
		if response.Message == "" {
			response.Message = "login rejected"
		}
		return ports.LoginStep{}, errors.New(response.Message)
	default:
		return ports.LoginStep{}, fmt.Errorf("unexpected gateway event %q", response.Event)
	}
}

// readPump drains post-login events so liveness stays current. It owns all
// reads once the session is online.
func (c *Client) readPump() {
	_ = c.conn.SetReadDeadline(time.Time{})
	for {
		var event frame
		if err := c.conn.ReadJSON(&event); err != nil {
			c.online.Store(false)
			return
		}
		if event.Event == "offline" {
			c.online.Store(false)
		}
	}
}

func (c *Client) write(request frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn == nil {
		return errGatewayClosed
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(request)
}

func sessionURL(addr string) (string, error) {
	if addr == "" {
		return "", errors.New("gateway address is required")
	}

	// A bare host:port would otherwise parse its host as the URL scheme.
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}

	parsed, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("parse gateway address: %w", err)
	}

	switch parsed.Scheme {
	case "ws", "wss":
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported gateway scheme %q", parsed.Scheme)
	}

	if parsed.Path == "" || parsed.Path == "/" {
		parsed.Path = sessionPath
	}

	return parsed.String(), nil
}
