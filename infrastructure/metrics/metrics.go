package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	NotesCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_created_total",
			Help: "Total number of notes created through the API",
		},
	)

	ResponseTimeHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time_seconds",
			Help:    "API response time in seconds",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	WizardsCompletedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_wizards_completed_total",
			Help: "Completed bot wizards by flow and outcome",
		},
		[]string{"flow", "outcome"},
	)

	AuditedEventsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "note_events_audited_total",
			Help: "Note lifecycle events consumed from the broker, by type",
		},
		[]string{"type"},
	)
)

func Init() {
	prometheus.MustRegister(NotesCreatedCounter)
	prometheus.MustRegister(ResponseTimeHistogram)
	prometheus.MustRegister(WizardsCompletedCounter)
	prometheus.MustRegister(AuditedEventsCounter)
}

func StartMetricsServer(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Info().Msgf("metrics server running on %s", port)
		server := &http.Server{Addr: port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		if err := server.ListenAndServe(); err != nil {
			log.Fatal().Err(err).Msg("failed to start metrics server")
		}
	}()
}
