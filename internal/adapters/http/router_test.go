package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/livedocs/internal/app/orch"
	"github.com/dkeye/livedocs/internal/config"
	"github.com/dkeye/livedocs/internal/core/coretest"
	"github.com/dkeye/livedocs/internal/metrics"
)

func newTestRouter(t *testing.T) (*gin.Engine, *orch.Orchestrator) {
	t.Helper()
	parent := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("top secret"), 0o600))
	dir := filepath.Join(parent, "dist")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o600))

	cfg := config.Default()
	cfg.Mode = "test"
	cfg.StaticPath = dir
	o := orch.New(metrics.New())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return SetupRouter(ctx, cfg, o), o
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestHealthz(t *testing.T) {
	r, o := newTestRouter(t)
	o.Connect(coretest.NewFakeConn())

	w := get(t, r, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 1.0, body["connections"])
}

func TestRoomsListing(t *testing.T) {
	r, o := newTestRouter(t)
	a := o.Connect(coretest.NewFakeConn())
	b := o.Connect(coretest.NewFakeConn())
	require.NoError(t, o.JoinDocument(a, "d1"))
	require.NoError(t, o.JoinDocument(b, "d1"))
	_, err := o.JoinRoom(a, "r1", "Ann")
	require.NoError(t, err)

	w := get(t, r, "/api/rooms")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"documents":[{"id":"d1","memberCount":2}],"rooms":[{"id":"r1","memberCount":1}]}`, w.Body.String())

	w = get(t, r, "/api/rooms/r1/participants")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"roomId":"r1","participants":[{"clientId":"`+string(a)+`","displayName":"Ann"}]}`, w.Body.String())

	w = get(t, r, "/api/rooms/nope/participants")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmptyRoomsListing(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(t, r, "/api/rooms")
	assert.JSONEq(t, `{"documents":[],"rooms":[]}`, w.Body.String())
}

func TestICEServersEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	w := get(t, r, "/api/ice-servers")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	servers := body["iceServers"].([]any)
	require.Len(t, servers, 1)
	assert.Equal(t, []any{"stun:stun.l.google.com:19302"}, servers[0].(map[string]any)["urls"])
}

func TestMetricsEndpoint(t *testing.T) {
	r, o := newTestRouter(t)
	o.Connect(coretest.NewFakeConn())
	w := get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "livedocs_connections_active 1")
}

func TestStaticAndSPAFallback(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(t, r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = get(t, r, "/assets/app.js")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = get(t, r, "/doc/abc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<html>app</html>")

	w = get(t, r, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticPathTraversalServesIndex(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, target := range []string{"/../secret.txt", "/../../etc/passwd", "/assets/../../secret.txt"} {
		w := get(t, r, target)
		require.Equal(t, http.StatusOK, w.Code, target)
		assert.Equal(t, "<html>app</html>", w.Body.String(), target)
		assert.NotContains(t, w.Body.String(), "top secret", target)
	}
}

func TestStaticHeadRequest(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/assets/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestUpgradeOnRootAndAlias(t *testing.T) {
	r, o := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	for _, p := range []string{"/", "/ws", "/some/room"} {
		ws, _, err := websocket.DefaultDialer.Dial(base+p, nil)
		require.NoError(t, err, p)
		var welcome map[string]any
		require.NoError(t, ws.ReadJSON(&welcome))
		assert.Equal(t, "welcome", welcome["type"])
		_ = ws.Close()
	}
	assert.Eventually(t, func() bool { return o.Registry.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
