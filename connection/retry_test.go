package connection

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/kvconn/params"
)

func TestRetryConnectZeroOptionsMakesOneAttempt(t *testing.T) {
	var calls int
	err := retryConnect(context.Background(), RetryOptions{}, func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryConnectZeroOptionsReportsFailure(t *testing.T) {
	var calls int
	err := retryConnect(context.Background(), RetryOptions{}, func(ctx context.Context) error {
		calls++
		return assert.AnError
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestRetryConnectRetriesUntilSuccess(t *testing.T) {
	var calls int
	err := retryConnect(context.Background(), RetryOptions{
		MaxRetries: 5,
		BaseDelay:  time.Millisecond,
	}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return assert.AnError
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryConnectExhaustsAttempts(t *testing.T) {
	var calls int
	err := retryConnect(context.Background(), RetryOptions{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
	}, func(ctx context.Context) error {
		calls++
		return assert.AnError
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 3, calls)
}

func TestRetryConnectHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryConnect(ctx, RetryOptions{
		MaxRetries: 3,
		BaseDelay:  time.Minute,
	}, func(ctx context.Context) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, context.Canceled)
}

// ConnectWithRetry with a zero-value RetryOptions must still dial: the
// connection comes up after a single attempt instead of silently
// skipping the dial.
func TestStreamConnectWithRetryZeroOptions(t *testing.T) {
	l := newTestListener(t)

	conn := NewStreamConnection(l.params())
	require.NoError(t, conn.ConnectWithRetry(context.Background(), RetryOptions{}))
	assert.True(t, conn.IsConnected())
	assert.Equal(t, 1, conn.Stats().Connects)
	require.NoError(t, conn.Disconnect())
}

func TestStreamConnectWithRetryExhaustsAttempts(t *testing.T) {
	// A listener that is already closed guarantees a refused dial.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	p := params.NewBuilder("tcp").
		Host("127.0.0.1", addr.Port).
		Timeout(200 * time.Millisecond).
		Build()

	conn := NewStreamConnection(p)
	err = conn.ConnectWithRetry(context.Background(), RetryOptions{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
	})
	require.Error(t, err)
	assert.False(t, conn.IsConnected())
}

func TestHTTPConnectWithRetryZeroOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	conn := NewHTTPConnection(bridgeParams(t, srv))
	require.NoError(t, conn.ConnectWithRetry(context.Background(), RetryOptions{}))
	assert.True(t, conn.IsConnected())
}
