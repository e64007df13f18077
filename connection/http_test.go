package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/kvconn/command"
	"github.com/Konsultn-Engineering/kvconn/params"
)

func bridgeParams(t *testing.T, srv *httptest.Server) *params.Parameters {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return params.NewBuilder("http").Host(u.Hostname(), port).Build()
}

func TestHTTPConnectReplaysQueue(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
	}))
	defer srv.Close()

	conn := NewHTTPConnection(bridgeParams(t, srv))
	conn.AddConnectCommand(command.Auth("", "secret"))
	conn.AddConnectCommand(command.Select(3))

	require.NoError(t, conn.Connect(context.Background()))
	assert.True(t, conn.IsConnected())

	assert.Equal(t, []string{"/AUTH/secret", "/SELECT/3"}, paths)
}

func TestHTTPConnectIsIdempotent(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	conn := NewHTTPConnection(bridgeParams(t, srv))
	conn.AddConnectCommand(command.Select(1))

	ctx := context.Background()
	require.NoError(t, conn.Connect(ctx))
	require.NoError(t, conn.Connect(ctx))
	assert.Equal(t, 1, hits)
}

func TestHTTPConnectFailsOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	conn := NewHTTPConnection(bridgeParams(t, srv))
	conn.AddConnectCommand(command.Auth("", "wrong"))

	err := conn.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, conn.IsConnected())
}

func TestHTTPDisconnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	conn := NewHTTPConnection(bridgeParams(t, srv))
	require.NoError(t, conn.Connect(context.Background()))
	require.NoError(t, conn.Disconnect())
	assert.False(t, conn.IsConnected())
}
