package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/anhtnguyen/historylab/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Login token metrics

	TokensIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "historylab",
		Name:      "login_tokens_issued_total",
		Help:      "Total QR login tokens issued by admins.",
	})

	TokenRedemptionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "historylab",
		Name:      "login_token_redemptions_total",
		Help:      "Total redemption attempts, by terminal outcome.",
	}, []string{"outcome"})

	TokensSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "historylab",
		Name:      "login_tokens_swept_total",
		Help:      "Expired login tokens removed by the sweeper.",
	})

	// Lesson metrics

	LessonGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "historylab",
		Name:      "lesson_generation_duration_seconds",
		Help:      "Duration of generative lesson requests.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	}, []string{"status"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "historylab",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "historylab",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		TokensIssuedTotal,
		TokenRedemptionsTotal,
		TokensSweptTotal,
		LessonGenerationDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes on the
// internal port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
