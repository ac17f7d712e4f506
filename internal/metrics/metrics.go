package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "alfred"

var (
	registry = prometheus.DefaultRegisterer

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route/method/code.",
		},
		[]string{"route", "method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by route/method/code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method", "code"},
	)

	onboardingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "onboarding_transitions_total",
			Help:      "Onboarding requests entering a status.",
		},
		[]string{"status"},
	)

	sideEffectSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "onboarding_steps_total",
			Help:      "Onboarding side-effect steps by step and result.",
		},
		[]string{"step", "result"},
	)

	rankDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "Duration of candidate ranking by result.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	rankCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranking_cache_total",
			Help:      "Ranking cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Middleware records one sample per request, labelled by route pattern so
// path parameters do not explode cardinality.
func Middleware(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	route := c.Path()
	if r := c.Route(); r != nil && r.Path != "" {
		route = r.Path
	}
	if route == "/metrics" {
		return err
	}

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
	}
	code := strconv.Itoa(status)
	method := c.Method()

	httpRequests.WithLabelValues(route, method, code).Inc()
	httpDuration.WithLabelValues(route, method, code).Observe(time.Since(start).Seconds())
	return err
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func ObserveTransition(status string) {
	onboardingTransitions.WithLabelValues(status).Inc()
}

func ObserveStep(step string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	sideEffectSteps.WithLabelValues(step, result).Inc()
}

func ObserveRank(start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	rankDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

func ObserveRankCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	rankCache.WithLabelValues(outcome).Inc()
}

func init() {
	collectors := []prometheus.Collector{
		httpRequests,
		httpDuration,
		onboardingTransitions,
		sideEffectSteps,
		rankDuration,
		rankCache,
	}

	for _, c := range collectors {
		_ = registry.Register(c)
	}
}
