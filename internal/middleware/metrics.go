package middleware

import (
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics counts requests and records their latency per route.
type Metrics struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	gatherer       stdprometheus.Gatherer
}

// NewMetrics registers the collectors with reg. Pass a fresh
// prometheus.Registry in tests.
func NewMetrics(namespace string, reg *stdprometheus.Registry) *Metrics {
	fieldKeys := []string{"method", "route", "status"}

	counter := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_count",
		Help:      "Number of requests received.",
	}, fieldKeys)
	latency := stdprometheus.NewHistogramVec(stdprometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, fieldKeys)
	reg.MustRegister(counter, latency)

	return &Metrics{
		requestCount:   kitprometheus.NewCounter(counter),
		requestLatency: kitprometheus.NewHistogram(latency),
		gatherer:       reg,
	}
}

func (m *Metrics) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		begin := time.Now()
		next(ctx)

		route, _ := ctx.UserValue(router.MatchedRoutePathParam).(string)
		if route == "" {
			route = "unmatched"
		}
		lvs := []string{
			"method", string(ctx.Method()),
			"route", route,
			"status", strconv.Itoa(ctx.Response.StatusCode()),
		}
		m.requestCount.With(lvs...).Add(1)
		m.requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
