package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "fxwallet/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateToken("secret", userID, "user", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, id)
	assert.Equal(t, "user", claims.Role)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), "user", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		retryable  bool
	}{
		{"validation", apperrors.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT", false},
		{"business", apperrors.ErrInsufficientBalance, fiber.StatusBadRequest, "INSUFFICIENT_BALANCE", false},
		{"not found", apperrors.ErrWalletNotFound, fiber.StatusNotFound, "WALLET_NOT_FOUND", false},
		{"conflict", apperrors.ErrIdempotencyConflict, fiber.StatusConflict, "IDEMPOTENCY_KEY_CONFLICT", false},
		{"unavailable", apperrors.ErrProviderUnavailable, fiber.StatusServiceUnavailable, "FX_PROVIDER_UNAVAILABLE", true},
		{"lock timeout", apperrors.ErrLockTimeout, fiber.StatusServiceUnavailable, "LOCK_TIMEOUT", true},
		{"foreign", io.ErrUnexpectedEOF, fiber.StatusInternalServerError, "INTERNAL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return Error(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body struct {
				Error     string `json:"error"`
				Code      string `json:"code"`
				Retryable bool   `json:"retryable"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.retryable, body.Retryable)
		})
	}
}
