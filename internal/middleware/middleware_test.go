package middleware

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fxwallet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthApp() *fiber.App {
	app := fiber.New()
	auth := NewAuthMiddleware(testSecret, nil)
	app.Get("/me", auth.Handler, func(c *fiber.Ctx) error {
		id, err := utils.GetUserID(c)
		if err != nil {
			return utils.Unauthorized(c, err.Error())
		}
		return c.SendString(id.String())
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	app := newAuthApp()
	userID := uuid.New()

	token, err := utils.GenerateToken(testSecret, userID, "user", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	app := newAuthApp()

	wrongSecret, err := utils.GenerateToken("other", uuid.New(), "user", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer abc.def.ghi"},
		{"wrong secret", "Bearer " + wrongSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

type recordedRequest struct {
	method, path, status string
}

type fakeObserver struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeObserver) ObserveRequest(method, path, status string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method, path, status})
}

func TestRequestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &fakeObserver{}
	app := fiber.New()
	app.Use(RequestMetrics(observer))
	app.Get("/balance/:currency", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/balance/USD", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	require.Len(t, observer.requests, 1)
	assert.Equal(t, recordedRequest{"GET", "/balance/:currency", "204"}, observer.requests[0])
}
