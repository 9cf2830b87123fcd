package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	requestsTotal       *prometheus.CounterVec
	latencySeconds      *prometheus.HistogramVec
	gradesAssignedTotal *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
	registrationsTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aula_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aula_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		gradesAssignedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aula_grades_assigned_total",
			Help: "Total number of grades assigned, labelled by outcome.",
		}, []string{"outcome"})

		notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aula_notifications_total",
			Help: "Total number of notifications created, labelled by kind.",
		}, []string{"kind"})

		registrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aula_registrations_total",
			Help: "Total number of user registrations, labelled by role.",
		}, []string{"role"})

		prometheus.MustRegister(requestsTotal, latencySeconds, gradesAssignedTotal, notificationsTotal, registrationsTotal)
	})
}

// Requests exposes the counter for served requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the request latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// GradesAssigned exposes the counter for grading operations.
func GradesAssigned() *prometheus.CounterVec {
	RegisterMetrics()
	return gradesAssignedTotal
}

// NotificationsCreated exposes the counter for created notifications.
func NotificationsCreated() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsTotal
}

// Registrations exposes the counter for user registrations.
func Registrations() *prometheus.CounterVec {
	RegisterMetrics()
	return registrationsTotal
}
