package metrics

import "github.com/prometheus/client_golang/prometheus"

// PoolStats is a point-in-time view of a connection pool. It keeps this
// package free of any driver import.
type PoolStats struct {
	Total, Idle, Acquired, Max int32
	// Acquires and EmptyAcquires are cumulative since the pool opened.
	Acquires, EmptyAcquires int64
}

// DBPoolStatFunc samples the pool on every scrape.
type DBPoolStatFunc func() PoolStats

type poolMetric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(PoolStats) float64
}

// dbPoolCollector reports pool state as const metrics at scrape time.
type dbPoolCollector struct {
	stat    DBPoolStatFunc
	metrics []poolMetric
}

func newPoolMetric(name, help string, kind prometheus.ValueType, value func(PoolStats) float64) poolMetric {
	return poolMetric{desc: prometheus.NewDesc("octofit_db_pool_"+name, help, nil, nil), kind: kind, value: value}
}

// NewDBPoolCollector creates a collector over the given stat source.
func NewDBPoolCollector(stat DBPoolStatFunc) prometheus.Collector {
	return &dbPoolCollector{
		stat: stat,
		metrics: []poolMetric{
			newPoolMetric("total_conns", "Connections currently open in the pool.", prometheus.GaugeValue,
				func(s PoolStats) float64 { return float64(s.Total) }),
			newPoolMetric("idle_conns", "Idle connections in the pool.", prometheus.GaugeValue,
				func(s PoolStats) float64 { return float64(s.Idle) }),
			newPoolMetric("acquired_conns", "Connections checked out of the pool.", prometheus.GaugeValue,
				func(s PoolStats) float64 { return float64(s.Acquired) }),
			newPoolMetric("max_conns", "Configured pool size limit.", prometheus.GaugeValue,
				func(s PoolStats) float64 { return float64(s.Max) }),
			newPoolMetric("acquires_total", "Successful connection acquisitions.", prometheus.CounterValue,
				func(s PoolStats) float64 { return float64(s.Acquires) }),
			newPoolMetric("empty_acquires_total", "Acquisitions that had to wait for a connection.", prometheus.CounterValue,
				func(s PoolStats) float64 { return float64(s.EmptyAcquires) }),
		},
	}
}

func (c *dbPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

func (c *dbPoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stat()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(s))
	}
}
