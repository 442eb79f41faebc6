package main

import (
	"github.com/cor0nius/cityreg/internal/citymatch"
	"github.com/cor0nius/cityreg/internal/registration"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// httpRequestsTotal is partitioned by route pattern, method and status code.
var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cityreg_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

var cityVerdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cityreg_city_verdicts_total",
	Help: "City inputs resolved, by verdict.",
}, []string{"kind"})

var registrationsFinalizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cityreg_registrations_finalized_total",
	Help: "Registrations written, by how the city was chosen.",
}, []string{"path"})

var storeWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cityreg_store_write_failures_total",
	Help: "Registration writes that failed and were left for the user to retry.",
})

// eventRegistrations is refreshed by the scheduler.
var eventRegistrations = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "cityreg_event_registrations",
	Help: "Registrations per event.",
}, []string{"event_id"})

// promObserver feeds registration flow events into the counters above.
type promObserver struct{}

func (promObserver) Resolved(kind citymatch.Kind) {
	cityVerdictsTotal.WithLabelValues(string(kind)).Inc()
}

func (promObserver) Finalized(path registration.FinalizePath) {
	registrationsFinalizedTotal.WithLabelValues(string(path)).Inc()
}

func (promObserver) StoreWriteFailed() {
	storeWriteFailuresTotal.Inc()
}
