package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerDefaults(t *testing.T) {
	s := NewServer(ServerConfig{})
	assert.Equal(t, 9090, s.port)
	assert.Equal(t, "/metrics", s.path)
}

func TestNewServerUsesConfiguredEndpoint(t *testing.T) {
	s := NewServer(ServerConfig{Port: 9102, Path: "/internal/metrics"})
	assert.Equal(t, 9102, s.port)
	assert.Equal(t, "/internal/metrics", s.path)
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	RecordCacheHit()

	server := httptest.NewServer(Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}
