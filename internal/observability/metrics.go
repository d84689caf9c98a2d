package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codegraph_extraction_seconds",
		Help:    "Time spent extracting a single source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegraph_files_processed_total",
		Help: "Total number of files extracted successfully by sync runs.",
	})

	FilesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegraph_files_skipped_total",
		Help: "Total number of files skipped because their checksum was unchanged.",
	})

	ExtractionErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegraph_extraction_errors_total",
		Help: "Total number of per-file errors recorded by sync runs.",
	})

	SyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codegraph_sync_seconds",
		Help:    "Time spent on a complete sync run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codegraph_graph_nodes_total",
		Help: "Total number of nodes in the in-memory graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codegraph_graph_edges_total",
		Help: "Total number of edges in the in-memory graph.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegraph_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
