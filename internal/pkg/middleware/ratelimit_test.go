package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goescola/internal/pkg/cache"
	"goescola/internal/pkg/middleware"
)

// MockCacheClient é uma implementação mock da interface cache.Client
type MockCacheClient struct {
	mock.Mock
}

func (m *MockCacheClient) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheClient) GetInt(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCacheClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheClient) Incr(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheClient) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func executaComLimiter(client cache.Client, limit int) (*httptest.ResponseRecorder, bool) {
	proximaChamada := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proximaChamada = true
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.RateLimiter(client, limit, time.Minute)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alunos", nil)
	req.RemoteAddr = "10.0.0.1:51234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, proximaChamada
}

// TestRateLimiter_Success_PrimeiraRequisicao testa que a primeira requisição
// do IP inicializa o contador e passa adiante.
func TestRateLimiter_Success_PrimeiraRequisicao(t *testing.T) {
	mockClient := new(MockCacheClient)

	mockClient.On("GetInt", mock.Anything, "rate-limit:10.0.0.1").Return(0, cache.ErrCacheMiss)
	mockClient.On("Set", mock.Anything, "rate-limit:10.0.0.1", 1, time.Minute).Return(nil)

	rec, proximaChamada := executaComLimiter(mockClient, 5)

	assert.True(t, proximaChamada)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	mockClient.AssertExpectations(t)
}

// TestRateLimiter_Fail_LimiteExcedido testa a rejeição 429 quando o contador
// atinge o limite.
func TestRateLimiter_Fail_LimiteExcedido(t *testing.T) {
	mockClient := new(MockCacheClient)

	mockClient.On("GetInt", mock.Anything, "rate-limit:10.0.0.1").Return(5, nil)

	rec, proximaChamada := executaComLimiter(mockClient, 5)

	assert.False(t, proximaChamada)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

// TestRateLimiter_Success_RedisIndisponivel testa que uma falha do Redis não
// derruba o tráfego: a requisição segue sem limite, como no fallback do
// cache-aside dos repositórios.
func TestRateLimiter_Success_RedisIndisponivel(t *testing.T) {
	mockClient := new(MockCacheClient)

	mockClient.On("GetInt", mock.Anything, "rate-limit:10.0.0.1").
		Return(0, errors.New("dial tcp: connection refused"))

	rec, proximaChamada := executaComLimiter(mockClient, 5)

	assert.True(t, proximaChamada)
	assert.Equal(t, http.StatusOK, rec.Code)
	mockClient.AssertNotCalled(t, "Incr", mock.Anything, mock.Anything)
}

// TestRateLimiter_Success_AbaixoDoLimite testa o incremento do contador em uma
// requisição dentro da janela.
func TestRateLimiter_Success_AbaixoDoLimite(t *testing.T) {
	mockClient := new(MockCacheClient)

	mockClient.On("GetInt", mock.Anything, "rate-limit:10.0.0.1").Return(2, nil)
	mockClient.On("Incr", mock.Anything, "rate-limit:10.0.0.1").Return(nil)

	rec, proximaChamada := executaComLimiter(mockClient, 5)

	assert.True(t, proximaChamada)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
	mockClient.AssertExpectations(t)
}
