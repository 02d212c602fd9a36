package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylehoskins/deploykit/internal/errors"
	"github.com/kylehoskins/deploykit/internal/logger"
)

// testRemote builds a Remote pointed at srv with no inter-attempt delay.
func testRemote(srv *httptest.Server, attempts int) *Remote {
	return &Remote{
		BaseURL:  srv.URL,
		Client:   srv.Client(),
		Attempts: attempts,
		Delay:    0,
		Log:      logger.Noop(),
	}
}

func TestFetchFirstAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deploy/pull.sh", r.URL.Path)
		w.Write([]byte("#!/bin/sh\n"))
	}))
	defer srv.Close()

	data, err := testRemote(srv, 3).Fetch(context.Background(), "deploy/pull.sh")
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(data))
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("content"))
	}))
	defer srv.Close()

	data, err := testRemote(srv, 3).Fetch(context.Background(), "deploy/README.md")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchEmptyPayloadIsAFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK) // 200 with zero bytes
	}))
	defer srv.Close()

	_, err := testRemote(srv, 3).Fetch(context.Background(), "deploy/pull.sh")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSource))
	assert.Contains(t, err.Error(), "after 3 attempts")

	// Empty payloads retry exactly like transport failures.
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchNotFoundExhaustsAttempts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := testRemote(srv, 2).Fetch(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Contains(t, err.Error(), "--local")
}

func TestFetchHonorsContextBetweenAttempts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := testRemote(srv, 3)
	r.Delay = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Fetch(ctx, "deploy/pull.sh")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestURLJoining(t *testing.T) {
	r := NewRemote("https://example.com/base/", time.Second, 1, 0)
	assert.Equal(t, "https://example.com/base/deploy/pull.sh", r.URL("deploy/pull.sh"))
	assert.Equal(t, "https://example.com/base", r.Describe())
}

func TestProbeAnyResponseMeansReachable(t *testing.T) {
	// The base URL is a directory; raw hosts answer 404 for it. That still
	// proves the network path works.
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	assert.NoError(t, testRemote(srv, 1).Probe(context.Background()))
}

func TestProbeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	err := testRemote(srv, 1).Probe(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNetwork))
	assert.Contains(t, err.Error(), "Cannot reach")
}
