// Package metrics exports docver's observability hooks as Prometheus metrics.
//
//	c := metrics.NewCollector("docver", prometheus.NewRegistry())
//	c.Install()
//	mux.Handle("/metrics", c.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/docver/pkg/observability"
)

// Collector implements every hook interface of package observability.
type Collector struct {
	resolveTotal    *prometheus.CounterVec
	resolveDuration prometheus.Histogram

	documentsTotal    prometheus.Counter
	placeholdersTotal *prometheus.CounterVec
	documentDuration  prometheus.Histogram

	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	requestErrors   prometheus.Counter

	gatherer prometheus.Gatherer
}

var (
	_ observability.ResolveHooks  = (*Collector)(nil)
	_ observability.DocumentHooks = (*Collector)(nil)
	_ observability.HTTPHooks     = (*Collector)(nil)
)

// NewCollector creates the metrics and registers them with reg. If reg is
// also a Gatherer (as *prometheus.Registry is), Handler serves it; otherwise
// Handler serves the default gatherer.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		resolveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Version lookups by outcome",
		}, []string{"outcome"}),
		resolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Version lookup duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		documentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed",
		}),
		placeholdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placeholders_total",
			Help:      "Placeholders substituted, by outcome",
		}, []string{"outcome"}),
		documentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time to process one document in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repository_requests_total",
			Help:      "Repository search responses by status code",
		}, []string{"status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repository_request_duration_seconds",
			Help:      "Repository search latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		requestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repository_request_errors_total",
			Help:      "Repository searches that got no response",
		}),
		gatherer: prometheus.DefaultGatherer,
	}

	reg.MustRegister(
		c.resolveTotal, c.resolveDuration,
		c.documentsTotal, c.placeholdersTotal, c.documentDuration,
		c.requestsTotal, c.requestDuration, c.requestErrors,
	)
	if g, ok := reg.(prometheus.Gatherer); ok {
		c.gatherer = g
	}
	return c
}

// Install registers c as the global resolve, document and HTTP hooks.
func (c *Collector) Install() {
	observability.SetResolveHooks(c)
	observability.SetDocumentHooks(c)
	observability.SetHTTPHooks(c)
}

// Handler serves the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) OnResolveStart(context.Context, string) {}

func (c *Collector) OnResolveComplete(_ context.Context, _, _ string, d time.Duration, err error) {
	c.resolveTotal.WithLabelValues(outcome(err)).Inc()
	c.resolveDuration.Observe(d.Seconds())
}

func (c *Collector) OnDocumentStart(context.Context, string, int) {}

func (c *Collector) OnDocumentComplete(_ context.Context, _ string, resolved, failed int, d time.Duration, err error) {
	if err != nil {
		return
	}
	c.documentsTotal.Inc()
	c.placeholdersTotal.WithLabelValues("ok").Add(float64(resolved))
	c.placeholdersTotal.WithLabelValues("error").Add(float64(failed))
	c.documentDuration.Observe(d.Seconds())
}

func (c *Collector) OnRequest(context.Context, string, string, string) {}

func (c *Collector) OnResponse(_ context.Context, _, _, _ string, status int, d time.Duration) {
	c.requestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	c.requestDuration.Observe(d.Seconds())
}

func (c *Collector) OnError(context.Context, string, string, string, error) {
	c.requestErrors.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
