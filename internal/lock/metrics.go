// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lock

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "resourcelock"

// metricsRecorder receives lock events from the manager and its locks.
type metricsRecorder interface {
	keyCreated()
	acquired(kind Kind, wait time.Duration)
	released(kind Kind)
}

type noopMetrics struct{}

func (noopMetrics) keyCreated()                  {}
func (noopMetrics) acquired(Kind, time.Duration) {}
func (noopMetrics) released(Kind)                {}

// Collector is a prometheus.Collector that collects metrics about the
// locks handed out by a Manager.
type Collector struct {
	registryKeys prometheus.Gauge
	acquisitions *prometheus.CounterVec
	held         *prometheus.GaugeVec
	acquireWait  *prometheus.HistogramVec
}

// NewMetricsCollector returns a new Collector.
func NewMetricsCollector() *Collector {
	return &Collector{
		registryKeys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "registry_keys",
				Help:      "The number of distinct resource keys with a lock.",
			},
		),
		acquisitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "acquisitions_total",
				Help:      "The number of resource locks acquired.",
			}, []string{"kind"},
		),
		held: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "held",
				Help:      "The number of resource locks currently held.",
			}, []string{"kind"},
		),
		acquireWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "acquire_wait_seconds",
				Help:      "The time spent blocked acquiring a resource lock.",
				Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1, 10, 60},
			}, []string{"kind"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.registryKeys.Describe(ch)
	c.acquisitions.Describe(ch)
	c.held.Describe(ch)
	c.acquireWait.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.registryKeys.Collect(ch)
	c.acquisitions.Collect(ch)
	c.held.Collect(ch)
	c.acquireWait.Collect(ch)
}

func (c *Collector) keyCreated() {
	c.registryKeys.Inc()
}

func (c *Collector) acquired(kind Kind, wait time.Duration) {
	label := kind.String()
	c.acquisitions.WithLabelValues(label).Inc()
	c.held.WithLabelValues(label).Inc()
	c.acquireWait.WithLabelValues(label).Observe(wait.Seconds())
}

func (c *Collector) released(kind Kind) {
	c.held.WithLabelValues(kind.String()).Dec()
}
