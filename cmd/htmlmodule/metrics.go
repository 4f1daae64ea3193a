package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry

	rewritesTotal   *prometheus.CounterVec
	rewriteDuration prometheus.Histogram
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		rewritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "htmlmodule_rewrites_total",
				Help: "Total number of module rewrites",
			},
			[]string{"result"},
		),
		rewriteDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "htmlmodule_rewrite_duration_seconds",
				Help:    "Module rewrite latency in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
	}
}

func (m *metrics) observe(d time.Duration, err error) {
	if err != nil {
		m.rewritesTotal.WithLabelValues("error").Inc()

		return
	}

	m.rewritesTotal.WithLabelValues("ok").Inc()
	m.rewriteDuration.Observe(d.Seconds())
}

func (m *metrics) handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
