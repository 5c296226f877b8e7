// Package metrics defines and registers the Prometheus collectors for the
// CRM service. It is the single source of truth for metric names, labels and
// help strings; collectors register with the default registry via promauto.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crm"

// HTTPRequestsTotal counts handled HTTP requests.
// Labels:
//   - method: the HTTP verb
//   - route: the registered route pattern (e.g. "/api/clients/:id")
//   - status: the response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request handling latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ClientMutationsTotal counts successful writes to the clients table.
// Label:
//   - operation: "create", "update", "patch" or "delete"
var ClientMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_mutations_total",
		Help:      "Total number of successful client record mutations.",
	},
	[]string{"operation"},
)

// ResponseStatus resolves the status a request answers with. While an error
// is still propagating to the central error handler the response status is
// not yet written, so it is derived from the error itself; unrecognised
// errors become a 500, matching the error handler's mapping.
func ResponseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	switch e := err.(type) {
	case *fiber.Error:
		return e.Code
	case interface{ StatusCode() int }:
		return e.StatusCode()
	}
	return fiber.StatusInternalServerError
}

// Middleware records request counts and latencies for every handled route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		method := c.Method()
		status := ResponseStatus(c, err)

		HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry in Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
