package http

import (
	"context"
	"net"
	"testing"
	"time"

	"SEO_Analysis/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServer_StartWithInvalidAddr(t *testing.T) {
	mockLogger := &mocks.MockLogger{}
	server := createTestServer(&mocks.MockAnalysisService{}, &mocks.MockProvider{}, mockLogger, &mocks.MockRateLimiter{})
	server.server.Addr = "invalid-address:99999"

	mockLogger.On("LogInfo", mock.Anything, "server_start", "Starting HTTP server", mock.MatchedBy(func(metadata map[string]interface{}) bool {
		return metadata["addr"] == "invalid-address:99999"
	})).Return()

	err := server.Start()

	assert.Error(t, err)
	mockLogger.AssertExpectations(t)
}

func TestServer_StartWithPortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	mockLogger := &mocks.MockLogger{}
	server := createTestServer(&mocks.MockAnalysisService{}, &mocks.MockProvider{}, mockLogger, &mocks.MockRateLimiter{})
	server.server.Addr = listener.Addr().String()

	mockLogger.On("LogInfo", mock.Anything, "server_start", "Starting HTTP server", mock.Anything).Return()

	err = server.Start()

	assert.Error(t, err)
	mockLogger.AssertExpectations(t)
}

func TestServer_Shutdown(t *testing.T) {
	mockLogger := &mocks.MockLogger{}
	server := createTestServer(&mocks.MockAnalysisService{}, &mocks.MockProvider{}, mockLogger, &mocks.MockRateLimiter{})

	mockLogger.On("LogInfo", mock.Anything, "server_shutdown", "Shutting down HTTP server", mock.Anything).Return()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// shutdown succeeds even if the server was never started
	assert.NoError(t, server.Shutdown(ctx))
	mockLogger.AssertExpectations(t)
}

func TestServer_Configuration(t *testing.T) {
	handler := NewHandler(&mocks.MockAnalysisService{}, &mocks.MockProvider{}, &mocks.MockLogger{})
	server := NewServer(":9999", handler, &mocks.MockLogger{}, &mocks.MockRateLimiter{}, 7*time.Second, 70*time.Second)

	assert.Equal(t, ":9999", server.server.Addr)
	assert.Equal(t, 7*time.Second, server.server.ReadTimeout)
	assert.Equal(t, 70*time.Second, server.server.WriteTimeout)
	assert.NotNil(t, server.Handler())
}
