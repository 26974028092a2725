package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantcare_chat_requests_total",
		Help: "Chat requests by outcome (ok, invalid, unavailable)",
	}, []string{"outcome"})

	GroundedReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantcare_chat_grounding_total",
		Help: "Chat prompts by whether retrieved context was included",
	}, []string{"grounded"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plantcare_stage_duration_seconds",
		Help:    "Per-stage latency (embed, retrieve, generate)",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	}, []string{"stage"})

	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantcare_errors_total",
		Help: "Error counts by stage",
	}, []string{"stage"})

	KnowledgeBaseDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plantcare_knowledge_base_documents",
		Help: "Documents in the published knowledge base snapshot",
	})

	PopulationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantcare_knowledge_base_populations_total",
		Help: "Knowledge base population attempts by result",
	}, []string{"result"})
)
