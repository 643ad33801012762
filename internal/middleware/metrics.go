package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestObserver records one finished HTTP request.
type RequestObserver interface {
	ObserveRequest(method, path, status string, duration time.Duration)
}

// RequestMetrics times every request and reports it under its route
// template, so path parameters do not explode label cardinality.
func RequestMetrics(observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		observer.ObserveRequest(c.Method(), path, strconv.Itoa(status), time.Since(start))
		return err
	}
}
