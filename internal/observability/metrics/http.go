package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analysisTotal        *prometheus.CounterVec
	analysisDuration     *prometheus.HistogramVec
	analysisSuggestions  *prometheus.HistogramVec
	suggestionsApplied   *prometheus.CounterVec
	suggestionsDismissed *prometheus.CounterVec
	checklistToggles     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "p360",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "p360",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "p360",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "p360",
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Total document analyses by detected type and outcome.",
		},
		[]string{"service", "doc_type", "status"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "p360",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Document analysis duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	analysisSuggestions := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "p360",
			Subsystem: "analysis",
			Name:      "suggestions",
			Help:      "Distribution of surviving suggestions per successful analysis.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	suggestionsApplied := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "p360",
			Subsystem: "checklist",
			Name:      "suggestions_applied_total",
			Help:      "Total suggestions applied to the checklist by source.",
		},
		[]string{"service", "source"},
	)
	suggestionsDismissed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "p360",
			Subsystem: "checklist",
			Name:      "suggestions_dismissed_total",
			Help:      "Total staged suggestions dismissed without applying.",
		},
		[]string{"service"},
	)
	checklistToggles := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "p360",
			Subsystem: "checklist",
			Name:      "toggles_total",
			Help:      "Total manual checklist toggles.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		analysisTotal,
		analysisDuration,
		analysisSuggestions,
		suggestionsApplied,
		suggestionsDismissed,
		checklistToggles,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		analysisTotal:        analysisTotal,
		analysisDuration:     analysisDuration,
		analysisSuggestions:  analysisSuggestions,
		suggestionsApplied:   suggestionsApplied,
		suggestionsDismissed: suggestionsDismissed,
		checklistToggles:     checklistToggles,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/checklist/"):
		return "/v1/checklist/{item_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordAnalysis(service, docType, status string, suggestions int, duration time.Duration) {
	if docType == "" {
		docType = "Unknown"
	}
	m.analysisTotal.WithLabelValues(service, docType, status).Inc()
	m.analysisDuration.WithLabelValues(service).Observe(duration.Seconds())
	if status == "success" {
		m.analysisSuggestions.WithLabelValues(service).Observe(float64(suggestions))
	}
}

func (m *HTTPServerMetrics) RecordSuggestionsApplied(service, source string, count int) {
	if count <= 0 {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.suggestionsApplied.WithLabelValues(service, source).Add(float64(count))
}

func (m *HTTPServerMetrics) RecordSuggestionDismissed(service string) {
	m.suggestionsDismissed.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordToggle(service string) {
	m.checklistToggles.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
