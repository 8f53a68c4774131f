package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MintAttempts counts mint attempts by result: success, precondition,
	// validation, upload or failed
	MintAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipminter",
		Name:      "mint_attempts_total",
		Help:      "Mint attempts by result.",
	}, []string{"result"})

	// MintErrors counts classified minting failures by user-facing title
	MintErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipminter",
		Name:      "mint_errors_total",
		Help:      "Classified minting SDK failures.",
	}, []string{"title"})

	// MissingTxHash counts successful mints whose response carried no hash
	MissingTxHash = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ipminter",
		Name:      "mint_missing_tx_hash_total",
		Help:      "Successful mints with no extractable transaction hash.",
	})

	// MintDuration observes the duration of minting SDK calls
	MintDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ipminter",
		Name:      "mint_duration_seconds",
		Help:      "Duration of minting SDK calls.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// PinUploads counts IPFS uploads by result
	PinUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ipminter",
		Name:      "ipfs_uploads_total",
		Help:      "IPFS pinning uploads by result.",
	}, []string{"result"})

	// ActiveSessions tracks open wizard sessions
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ipminter",
		Name:      "active_sessions",
		Help:      "Open wizard sessions.",
	})
)
