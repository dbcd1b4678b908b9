package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

type fakeScheduler struct {
	next time.Time
}

func (f *fakeScheduler) NextRun() time.Time { return f.next }

func newTestServer(store Pinger, scheduler NextRunner) *Server {
	return NewServer(Config{
		ServiceName: "fourd-sync",
		Version:     "test",
		Store:       store,
		Scheduler:   scheduler,
	})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "fourd-sync", body.Service)
	assert.Equal(t, "test", body.Version)
}

func TestHandleReadyNotReady(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "not_ready", body.Checks["service"])
}

func TestHandleReadyWithHealthyStore(t *testing.T) {
	next := time.Date(2025, 4, 9, 21, 0, 0, 0, time.UTC)
	s := newTestServer(&fakePinger{}, &fakeScheduler{next: next})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["store"])
	assert.Equal(t, "2025-04-09T21:00:00Z", body.NextSync)
}

func TestHandleReadyStoreDown(t *testing.T) {
	s := newTestServer(&fakePinger{err: errors.New("connection refused")}, nil)
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Checks["store"], "connection refused")
}
