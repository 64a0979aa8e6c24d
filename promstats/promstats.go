// Package promstats exposes cache statistics as Prometheus metrics.
//
// The collector reads Stats() at scrape time, so it carries no state and no
// background work. One collector per cache; the cache label keeps series
// apart when a process runs several.
package promstats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tagcache/tagcache"
)

// Source is anything that can report cache statistics. tagcache.Cache
// satisfies it directly.
type Source interface {
	Stats() tagcache.Stats
}

type Collector struct {
	src Source

	hits        *prometheus.Desc
	misses      *prometheus.Desc
	evictions   *prometheus.Desc
	expirations *prometheus.Desc
	entries     *prometheus.Desc
	hitRatio    *prometheus.Desc
	lastCleanup *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector for src. cacheName becomes the constant
// "cache" label on every series.
func NewCollector(src Source, cacheName string) *Collector {
	labels := prometheus.Labels{"cache": cacheName}
	return &Collector{
		src: src,
		hits: prometheus.NewDesc(
			"tagcache_hits_total",
			"Number of cache hits.",
			nil, labels),
		misses: prometheus.NewDesc(
			"tagcache_misses_total",
			"Number of cache misses.",
			nil, labels),
		evictions: prometheus.NewDesc(
			"tagcache_evictions_total",
			"Entries removed by capacity pressure.",
			nil, labels),
		expirations: prometheus.NewDesc(
			"tagcache_expirations_total",
			"Entries removed after their TTL passed.",
			nil, labels),
		entries: prometheus.NewDesc(
			"tagcache_entries",
			"Entries currently stored, including expired entries not yet swept.",
			nil, labels),
		hitRatio: prometheus.NewDesc(
			"tagcache_hit_ratio",
			"Hits over total accesses; 0 when nothing was accessed.",
			nil, labels),
		lastCleanup: prometheus.NewDesc(
			"tagcache_last_cleanup_timestamp_seconds",
			"Unix time of the last cleanup pass; 0 before the first.",
			nil, labels),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.entries
	ch <- c.hitRatio
	ch <- c.lastCleanup
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.CounterValue, float64(s.Expirations))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, s.HitRate)

	var last float64
	if !s.LastCleanup.IsZero() {
		last = float64(s.LastCleanup.Unix())
	}
	ch <- prometheus.MustNewConstMetric(c.lastCleanup, prometheus.GaugeValue, last)
}
