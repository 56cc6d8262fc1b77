package redisrepo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "board_cache_hits_total",
			Help: "Total number of board cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "board_cache_misses_total",
			Help: "Total number of board cache misses",
		},
	)

	// CacheErrors tracks failed cache operations by operation ("get", "set", "del", "scan")
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"},
	)

	InvalidatedKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "board_cache_invalidated_keys_total",
			Help: "Total number of keys removed by pattern invalidation",
		},
	)
)
