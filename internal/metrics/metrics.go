// Package metrics expone métricas Prometheus de la API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder es lo que usan middleware y services. Nil-safe vía Nop.
type Recorder interface {
	RecordRequest(method, route string, status int, d time.Duration)
	RecordPetCreated()
	RecordWeightRecorded()
	RecordPersistenceFailure(op string)
}

type Collector struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	petsCreated     prometheus.Counter
	weightsRecorded prometheus.Counter
	persistenceFail *prometheus.CounterVec
}

// NewCollector crea y registra las métricas en reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petweight_http_requests_total",
			Help: "Requests HTTP por método, ruta y status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "petweight_http_request_duration_seconds",
			Help:    "Latencia de requests HTTP (segundos)",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		petsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petweight_pets_created_total",
			Help: "Mascotas creadas",
		}),
		weightsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petweight_weights_recorded_total",
			Help: "Registros de peso creados",
		}),
		persistenceFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petweight_persistence_failures_total",
			Help: "Fallas inesperadas del datastore por operación",
		}, []string{"op"}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.petsCreated,
		c.weightsRecorded,
		c.persistenceFail,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordPetCreated()     { c.petsCreated.Inc() }
func (c *Collector) RecordWeightRecorded() { c.weightsRecorded.Inc() }

func (c *Collector) RecordPersistenceFailure(op string) {
	c.persistenceFail.WithLabelValues(op).Inc()
}

// Handler devuelve el handler de scrape para gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type nop struct{}

func (nop) RecordRequest(string, string, int, time.Duration) {}
func (nop) RecordPetCreated()                                {}
func (nop) RecordWeightRecorded()                            {}
func (nop) RecordPersistenceFailure(string)                  {}

// Nop no registra nada.
func Nop() Recorder { return nop{} }
