package handlers

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthCheckTimeout = 2 * time.Second

// CheckFunc probes one dependency; nil means up.
type CheckFunc func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]CheckFunc
}

func NewHealthHandler(checks map[string]CheckFunc) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HealthCheck reports "healthy" only when every dependency is up. Any
// failed probe degrades the status and answers 503.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := fiber.Map{}
	up := 0
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = "down"
			continue
		}
		results[name] = "up"
		up++
	}

	percent := 100
	if len(names) > 0 {
		percent = int(math.Round(float64(up) / float64(len(names)) * 100))
	}

	status, code := "healthy", fiber.StatusOK
	if percent < 100 {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"health":  percent,
		"version": "1.0.0",
		"checks":  results,
	})
}
