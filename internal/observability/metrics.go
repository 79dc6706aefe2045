package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	AnchorResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "burrow_anchor_resolutions_total",
		Help: "Anchor resolutions by outcome (resolved, cached, unavailable).",
	}, []string{"outcome"})

	ContentFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "burrow_content_fetches_total",
		Help: "Content window fetches served to the renderer.",
	})

	OffsetClamps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "burrow_offset_clamps_total",
		Help: "Times a scrolled line offset was clamped back into document bounds.",
	})

	AceSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "burrow_ace_selections_total",
		Help: "Ace selection runs by outcome (selected, cancelled).",
	}, []string{"outcome"})

	SessionsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "burrow_sessions_saved_total",
		Help: "Sessions promoted into the saved-session registry.",
	})

	BranchesPushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "burrow_branches_pushed_total",
		Help: "Definition lists pushed as branches under an entry.",
	})

	ResolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "burrow_resolve_seconds",
		Help:    "Time spent parsing a source file for definitions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	OpenDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "burrow_open_documents",
		Help: "Documents currently resident in the provider pool.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "burrow_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
