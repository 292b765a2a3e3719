package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the storefront's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	ordersPlaced     prometheus.Counter
	checkoutFailures *prometheus.CounterVec
	favoriteToggles  *prometheus.CounterVec
	ratingsCreated   prometheus.Counter
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lume_orders_placed_total",
			Help: "Orders committed by checkout.",
		}),
		checkoutFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lume_checkout_failures_total",
			Help: "Checkouts that did not produce an order, by reason.",
		}, []string{"reason"}),
		favoriteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lume_favorite_toggles_total",
			Help: "Favorite toggles by resulting state.",
		}, []string{"state"}),
		ratingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lume_ratings_created_total",
			Help: "Ratings stored.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lume_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.ordersPlaced,
		m.checkoutFailures,
		m.favoriteToggles,
		m.ratingsCreated,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) OrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func (m *Metrics) CheckoutFailed(reason string) {
	if m == nil {
		return
	}
	m.checkoutFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) FavoriteToggled(favorited bool) {
	if m == nil {
		return
	}
	state := "removed"
	if favorited {
		state = "added"
	}
	m.favoriteToggles.WithLabelValues(state).Inc()
}

func (m *Metrics) RatingCreated() {
	if m == nil {
		return
	}
	m.ratingsCreated.Inc()
}

// Middleware observes request latency. Routes are labelled by their
// registered path, never the raw URL.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			m.httpDuration.
				WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
