package homeassistant

import (
	"context"
	"encoding/json"
	"errors"
	"magic-dashboard/internal/infrastructure/logging"
	"magic-dashboard/internal/ports"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHA answers the WebSocket API with canned results keyed by command type.
type fakeHA struct {
	token    string
	results  map[string]any
	failures map[string]string
	connects atomic.Int32
	rejectN  int32 // drop the first N connections before auth
}

func (f *fakeHA) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/websocket" {
		http.NotFound(w, r)
		return
	}
	n := f.connects.Add(1)
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	if n <= f.rejectN {
		return
	}

	_ = conn.WriteJSON(map[string]any{"type": "auth_required"})
	var auth map[string]string
	if err := conn.ReadJSON(&auth); err != nil {
		return
	}
	if auth["access_token"] != f.token {
		_ = conn.WriteJSON(map[string]any{"type": "auth_invalid", "message": "Invalid access token"})
		return
	}
	_ = conn.WriteJSON(map[string]any{"type": "auth_ok"})

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		// unrelated events must be ignored by the client
		_ = conn.WriteJSON(map[string]any{"type": "event", "id": req.ID})
		if code, ok := f.failures[req.Type]; ok {
			_ = conn.WriteJSON(map[string]any{
				"id": req.ID, "type": "result", "success": false,
				"error": map[string]any{"code": code, "message": "nope"},
			})
			continue
		}
		_ = conn.WriteJSON(map[string]any{
			"id": req.ID, "type": "result", "success": true, "result": f.results[req.Type],
		})
	}
}

func registryFixture() map[string]any {
	var results map[string]any
	_ = json.Unmarshal([]byte(`{
		"config/floor_registry/list": [{"floor_id": "ground", "name": "Ground", "level": 0, "icon": null}],
		"config/area_registry/list": [
			{"area_id": "kitchen", "name": "Kitchen", "floor_id": "ground", "icon": null, "aliases": []}
		],
		"config/device_registry/list": [
			{"id": "dev1", "area_id": "kitchen", "manufacturer": "Acme", "model": "Bulb", "name": "Bulb", "name_by_user": null, "sw_version": "1.0"}
		],
		"config/entity_registry/list": [
			{"entity_id": "light.kitchen", "device_id": "dev1", "area_id": null, "platform": "hue",
			 "disabled_by": null, "hidden_by": null, "name": null, "original_name": "Kitchen", "icon": null}
		],
		"get_states": [
			{"entity_id": "light.kitchen", "state": "on", "attributes": {"brightness": 255},
			 "last_changed": "2024-01-01T00:00:00+00:00", "last_updated": "2024-01-01T00:00:00+00:00",
			 "context": {"id": "c1"}},
			{"entity_id": "zone.home", "state": "0", "attributes": {}}
		],
		"auth/current_user": {"id": "u1", "name": "Owner", "is_admin": true}
	}`), &results)
	return results
}

func newTestClient(t *testing.T, ha *fakeHA) *Client {
	t.Helper()
	srv := httptest.NewServer(ha)
	t.Cleanup(srv.Close)

	c := NewClient(logging.Discard(), 3)
	c.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	c.Configure(srv.URL+"/", ha.token)
	return c
}

func TestClient_FetchSnapshot(t *testing.T) {
	ha := &fakeHA{token: "secret", results: registryFixture()}
	c := newTestClient(t, ha)

	snap, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Floors, 1)
	assert.Equal(t, 0, *snap.Floors[0].Level)
	require.Len(t, snap.Areas, 1)
	assert.Equal(t, "ground", *snap.Areas[0].FloorID)
	assert.Equal(t, []any{}, snap.Areas[0].Extra["aliases"])
	require.Len(t, snap.Devices, 1)
	assert.Equal(t, "Acme", *snap.Devices[0].Manufacturer)
	assert.Equal(t, "1.0", snap.Devices[0].Extra["sw_version"])
	require.Len(t, snap.Entities, 1)
	assert.Equal(t, "dev1", *snap.Entities[0].DeviceID)
	assert.Nil(t, snap.Entities[0].AreaID)
	require.Len(t, snap.States, 2)
	assert.Equal(t, "on", snap.States["light.kitchen"].State)
	assert.Equal(t, 255.0, snap.States["light.kitchen"].Attributes["brightness"])
	require.NotNil(t, snap.User)
	assert.True(t, snap.User.IsAdmin)
	assert.EqualValues(t, 1, ha.connects.Load())
}

func TestClient_OptionalCommands(t *testing.T) {
	ha := &fakeHA{
		token:   "secret",
		results: registryFixture(),
		failures: map[string]string{
			cmdFloorRegistry: "unknown_command",
			cmdCurrentUser:   "unauthorized",
		},
	}
	c := newTestClient(t, ha)

	snap, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Floors)
	assert.Nil(t, snap.User)
	assert.Len(t, snap.Areas, 1)
}

func TestClient_RequiredCommandFails(t *testing.T) {
	ha := &fakeHA{
		token:    "secret",
		results:  registryFixture(),
		failures: map[string]string{cmdEntityRegistry: "unauthorized"},
	}
	c := newTestClient(t, ha)

	_, err := c.FetchSnapshot(context.Background())
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, cmdEntityRegistry, cmdErr.Command)
	assert.Equal(t, "unauthorized", cmdErr.Code)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	ha := &fakeHA{token: "secret", results: registryFixture(), rejectN: 2}
	c := newTestClient(t, ha)

	_, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, ha.connects.Load())
}

func TestClient_InvalidTokenIsNotRetried(t *testing.T) {
	ha := &fakeHA{token: "secret", results: registryFixture()}
	c := newTestClient(t, ha)
	c.Configure(c.url, "wrong")

	_, err := c.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrAuthInvalid)
	assert.EqualValues(t, 1, ha.connects.Load())
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(logging.Discard(), 0)
	assert.False(t, c.IsConfigured())

	_, err := c.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, ports.ErrNotConfigured)

	c.Configure("http://ha:8123/", "tok")
	assert.True(t, c.IsConfigured())
	assert.Equal(t, "http://ha:8123", c.url)
}

func TestWebsocketURL(t *testing.T) {
	for in, want := range map[string]string{
		"http://ha.local:8123":    "ws://ha.local:8123/api/websocket",
		"https://ha.example.com":  "wss://ha.example.com/api/websocket",
		"https://example.com/ha/": "wss://example.com/ha/api/websocket",
	} {
		got, err := websocketURL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := websocketURL("ftp://ha")
	assert.Error(t, err)
}
