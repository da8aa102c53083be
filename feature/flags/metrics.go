package flags

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "feature_manifest"

// Collector exports cache and definition figures of a Service to Prometheus.
// Values are read from the service on every scrape.
type Collector struct {
	service *Service

	hits         *prometheus.Desc
	misses       *prometheus.Desc
	computations *prometheus.Desc
	entries      *prometheus.Desc
	features     *prometheus.Desc
}

// NewCollector creates a collector for service.
func NewCollector(service *Service) *Collector {
	return &Collector{
		service: service,
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "hits_total"),
			"Manifest lookups served from the cache.", nil, nil),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "misses_total"),
			"Manifest lookups that were not cached.", nil, nil),
		computations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "resolutions_total"),
			"Manifest resolutions actually executed.", nil, nil),
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Manifests currently cached.", nil, nil),
		features: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "definition", "features"),
			"Features in the served definition.", []string{"version"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.computations
	ch <- c.entries
	ch <- c.features
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.service.CacheStats()
	def := c.service.Definition()

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.computations, prometheus.CounterValue, float64(stats.Computations))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.service.CachedManifests()))
	ch <- prometheus.MustNewConstMetric(c.features, prometheus.GaugeValue, float64(def.Graph.Len()), def.Version)
}
