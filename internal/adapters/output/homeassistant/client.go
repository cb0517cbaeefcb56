package homeassistant

import (
	"context"
	"errors"
	"fmt"
	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/infrastructure/logging"
	"magic-dashboard/internal/ports"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// WebSocket commands read during one snapshot.
const (
	cmdFloorRegistry  = "config/floor_registry/list"
	cmdAreaRegistry   = "config/area_registry/list"
	cmdDeviceRegistry = "config/device_registry/list"
	cmdEntityRegistry = "config/entity_registry/list"
	cmdStates         = "get_states"
	cmdCurrentUser    = "auth/current_user"

	handshakeTimeout = 10 * time.Second
)

// ErrAuthInvalid is returned when Home Assistant rejects the access token.
var ErrAuthInvalid = errors.New("Home Assistant rejected the access token")

// CommandError is a failed command result.
type CommandError struct {
	Command string `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed: %s: %s", e.Command, e.Code, e.Message)
}

// Client reads registries and states over the Home Assistant WebSocket API.
type Client struct {
	url    string
	token  string
	mu     sync.RWMutex
	logger *logging.Logger

	dialer     *websocket.Dialer
	maxRetries int
	newBackOff func() backoff.BackOff
}

func NewClient(logger *logging.Logger, maxRetries int) *Client {
	return &Client{
		logger:     logger.With("component", "homeassistant"),
		dialer:     &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.MaxElapsedTime = 30 * time.Second
			return bo
		},
	}
}

func (c *Client) Configure(url, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = strings.TrimSuffix(url, "/")
	c.token = token
}

func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url != "" && c.token != ""
}

// FetchSnapshot opens one connection, issues every registry command concurrently
// and returns once all of them have answered.
//
// The floor registry and the current user are optional: hosts that do not know
// the command produce no floors and no user instead of an error.
func (c *Client) FetchSnapshot(ctx context.Context) (*model.Snapshot, error) {
	c.mu.RLock()
	baseURL := c.url
	token := c.token
	c.mu.RUnlock()

	if baseURL == "" || token == "" {
		return nil, ports.ErrNotConfigured
	}

	wsURL, err := websocketURL(baseURL)
	if err != nil {
		return nil, err
	}

	sess, err := c.connect(ctx, wsURL, token)
	if err != nil {
		return nil, err
	}
	defer sess.close()

	snapshot := &model.Snapshot{}
	var states []model.State
	var user model.User
	var hasUser bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := sess.call(gctx, cmdFloorRegistry, &snapshot.Floors)
		return c.optional(cmdFloorRegistry, err)
	})
	g.Go(func() error { return sess.call(gctx, cmdAreaRegistry, &snapshot.Areas) })
	g.Go(func() error { return sess.call(gctx, cmdDeviceRegistry, &snapshot.Devices) })
	g.Go(func() error { return sess.call(gctx, cmdEntityRegistry, &snapshot.Entities) })
	g.Go(func() error { return sess.call(gctx, cmdStates, &states) })
	g.Go(func() error {
		err := sess.call(gctx, cmdCurrentUser, &user)
		hasUser = err == nil
		return c.optional(cmdCurrentUser, err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot.States = make(map[string]model.State, len(states))
	for _, s := range states {
		snapshot.States[s.EntityID] = s
	}
	if hasUser {
		snapshot.User = &user
	}

	c.logger.Debug("snapshot fetched",
		"floors", len(snapshot.Floors),
		"areas", len(snapshot.Areas),
		"devices", len(snapshot.Devices),
		"entities", len(snapshot.Entities),
		"states", len(snapshot.States),
	)
	return snapshot, nil
}

// optional swallows command failures reported by the host itself.
func (c *Client) optional(command string, err error) error {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		c.logger.Warn("optional command failed", "command", command, "code", cmdErr.Code)
		return nil
	}
	return err
}

// connect dials and authenticates, retrying transient failures with exponential
// backoff. A rejected token is not retried.
func (c *Client) connect(ctx context.Context, wsURL, token string) (*session, error) {
	var sess *session
	attempt := 0

	bo := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx)
	err := backoff.Retry(func() error {
		attempt++
		s, err := c.dial(ctx, wsURL, token)
		if err != nil {
			c.logger.Warn("connecting to Home Assistant failed", "attempt", attempt, "error", err)
			if errors.Is(err, ErrAuthInvalid) {
				return backoff.Permanent(err)
			}
			return err
		}
		sess = s
		return nil
	}, bo)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", wsURL, err)
	}
	return sess, nil
}

func (c *Client) dial(ctx context.Context, wsURL, token string) (*session, error) {
	conn, resp, err := c.dialer.DialContext(ctx, wsURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	if err := authenticate(conn, token); err != nil {
		conn.Close()
		return nil, err
	}
	return newSession(conn), nil
}

// authenticate runs the auth_required / auth / auth_ok exchange.
func authenticate(conn *websocket.Conn, token string) error {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	defer conn.SetReadDeadline(time.Time{})

	var msg message
	if err := conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("reading auth request: %w", err)
	}
	if msg.Type != "auth_required" {
		return fmt.Errorf("unexpected message %q before auth", msg.Type)
	}

	if err := conn.WriteJSON(map[string]string{"type": "auth", "access_token": token}); err != nil {
		return fmt.Errorf("sending auth: %w", err)
	}

	if err := conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("reading auth result: %w", err)
	}
	switch msg.Type {
	case "auth_ok":
		return nil
	case "auth_invalid":
		return fmt.Errorf("%w: %s", ErrAuthInvalid, msg.Message)
	default:
		return fmt.Errorf("unexpected auth result %q", msg.Type)
	}
}

// websocketURL turns the configured http(s) base URL into the API socket URL.
func websocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing Home Assistant URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported Home Assistant URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/websocket"
	return u.String(), nil
}
