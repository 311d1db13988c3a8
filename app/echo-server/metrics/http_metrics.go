package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allocation_http_request_duration_seconds",
		Help:    "Latency of allocation API requests by route",
		Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"method", "route", "status"})

	RequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_http_requests_total",
		Help: "Total allocation API requests served",
	}, []string{"method", "route", "status"})
)

func Init() {
	prometheus.MustRegister(RequestDuration, RequestTotal)
}

// Middleware records latency per matched route, so path ids never become
// label values.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			labels := []string{c.Request().Method, route, strconv.Itoa(status)}

			RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(labels...).Inc()
			return err
		}
	}
}
