package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginAttempts counts login submissions by result (success, failure).
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// StudentMutations counts successful student writes by action (create, update, delete).
	StudentMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "student_mutations_total",
			Help: "Total number of student records created, updated or deleted",
		},
		[]string{"action"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LoginAttempts, StudentMutations)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /edit/123 -> /edit/{id}. Used when no route pattern is available.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. path should be
// the matched route pattern; raw paths are normalized.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncLoginAttempt increments the login counter for result "success" or "failure".
func IncLoginAttempt(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}

// IncStudentMutation increments the mutation counter for the given audit action.
func IncStudentMutation(action string) {
	StudentMutations.WithLabelValues(action).Inc()
}
