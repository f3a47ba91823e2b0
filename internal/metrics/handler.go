package metrics

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// Summary is the JSON response for the metrics summary endpoint.
type Summary struct {
	HTTP        httpSummary        `json:"http"`
	Resources   map[string]float64 `json:"resources"`
	RateLimit   rateLimitInfo      `json:"rateLimit"`
	Leaderboard leaderboardInfo    `json:"leaderboard"`
	DB          dbInfo             `json:"db"`
	Server      serverInfo         `json:"server"`
}

type httpSummary struct {
	TotalRequests float64 `json:"totalRequests"`
	ErrorRate     float64 `json:"errorRate"`
	P50Latency    float64 `json:"p50Latency"`
	P95Latency    float64 `json:"p95Latency"`
	P99Latency    float64 `json:"p99Latency"`
}

type rateLimitInfo struct {
	Rejections float64 `json:"rejections"`
}

type leaderboardInfo struct {
	Recomputes  float64 `json:"recomputes"`
	Failures    float64 `json:"failures"`
	P95Duration float64 `json:"p95Duration"`
	UserRows    float64 `json:"userRows"`
	TeamRows    float64 `json:"teamRows"`
}

type serverInfo struct {
	StartTime     float64 `json:"startTime"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

type dbInfo struct {
	TotalConns    float64 `json:"totalConns"`
	IdleConns     float64 `json:"idleConns"`
	AcquiredConns float64 `json:"acquiredConns"`
	MaxConns      float64 `json:"maxConns"`
}

// Handler returns an http.HandlerFunc that serves live metrics in JSON format.
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := m.Summarize()
		if err != nil {
			http.Error(w, "failed to gather metrics", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache, no-store")
		_ = json.NewEncoder(w).Encode(summary)
	}
}

// Summarize gathers the registry into a Summary.
func (m *Metrics) Summarize() (*Summary, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	fam := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		fam[f.GetName()] = f
	}

	requests := fam["octofit_http_requests_total"]
	durations := fam["octofit_http_request_duration_seconds"]
	start := gaugeValue(fam["octofit_server_start_time_seconds"])

	return &Summary{
		HTTP: httpSummary{
			TotalRequests: sumCounter(requests, nil),
			ErrorRate:     errorRate(requests),
			P50Latency:    histogramPercentile(durations, 0.50),
			P95Latency:    histogramPercentile(durations, 0.95),
			P99Latency:    histogramPercentile(durations, 0.99),
		},
		Resources: countersByLabel(requests, "resource"),
		RateLimit: rateLimitInfo{
			Rejections: sumCounter(fam["octofit_ratelimit_rejections_total"], nil),
		},
		Leaderboard: leaderboardInfo{
			Recomputes:  sumCounter(fam["octofit_leaderboard_recomputes_total"], nil),
			Failures:    sumCounter(fam["octofit_leaderboard_recomputes_total"], withLabel("status", "error")),
			P95Duration: histogramPercentile(fam["octofit_leaderboard_recompute_duration_seconds"], 0.95),
			UserRows:    sumGauge(fam["octofit_leaderboard_rows"], withLabel("type", "user")),
			TeamRows:    sumGauge(fam["octofit_leaderboard_rows"], withLabel("type", "team")),
		},
		DB: dbInfo{
			TotalConns:    gaugeValue(fam["octofit_db_pool_total_conns"]),
			IdleConns:     gaugeValue(fam["octofit_db_pool_idle_conns"]),
			AcquiredConns: gaugeValue(fam["octofit_db_pool_acquired_conns"]),
			MaxConns:      gaugeValue(fam["octofit_db_pool_max_conns"]),
		},
		Server: serverInfo{
			StartTime:     start,
			UptimeSeconds: float64(time.Now().Unix()) - start,
		},
	}, nil
}

// --- Prometheus metric helpers ---

// metricFilter selects metrics within a family; nil keeps all of them.
type metricFilter func(*dto.Metric) bool

func withLabel(name, value string) metricFilter {
	return func(m *dto.Metric) bool {
		return labelValue(m, name) == value
	}
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func sumCounter(f *dto.MetricFamily, keep metricFilter) float64 {
	if f == nil {
		return 0
	}
	var total float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() != nil && (keep == nil || keep(m)) {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func sumGauge(f *dto.MetricFamily, keep metricFilter) float64 {
	if f == nil {
		return 0
	}
	var total float64
	for _, m := range f.GetMetric() {
		if m.GetGauge() != nil && (keep == nil || keep(m)) {
			total += m.GetGauge().GetValue()
		}
	}
	return total
}

func gaugeValue(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	ms := f.GetMetric()
	if len(ms) == 0 || ms[0].GetGauge() == nil {
		return 0
	}
	return ms[0].GetGauge().GetValue()
}

func countersByLabel(f *dto.MetricFamily, name string) map[string]float64 {
	out := map[string]float64{}
	if f == nil {
		return out
	}
	for _, m := range f.GetMetric() {
		if m.GetCounter() != nil {
			out[labelValue(m, name)] += m.GetCounter().GetValue()
		}
	}
	return out
}

// errorRate is the share of requests answered with a 4xx or 5xx status.
func errorRate(f *dto.MetricFamily) float64 {
	total := sumCounter(f, nil)
	if total == 0 {
		return 0
	}
	errors := sumCounter(f, func(m *dto.Metric) bool {
		code := labelValue(m, "status_code")
		return len(code) > 0 && code[0] >= '4'
	})
	return errors / total
}

// histogramPercentile computes a percentile from aggregated histogram buckets
// using linear interpolation.
func histogramPercentile(f *dto.MetricFamily, q float64) float64 {
	if f == nil {
		return 0
	}

	type bucket struct {
		upperBound      float64
		cumulativeCount uint64
	}
	var totalCount uint64
	bucketMap := make(map[float64]uint64)

	for _, m := range f.GetMetric() {
		h := m.GetHistogram()
		if h == nil {
			continue
		}
		totalCount += h.GetSampleCount()
		for _, b := range h.GetBucket() {
			bucketMap[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}

	if totalCount == 0 {
		return 0
	}

	buckets := make([]bucket, 0, len(bucketMap))
	for ub, count := range bucketMap {
		buckets = append(buckets, bucket{upperBound: ub, cumulativeCount: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].upperBound < buckets[j].upperBound
	})

	rank := q * float64(totalCount)

	var prevBound float64
	var prevCount uint64
	for _, b := range buckets {
		if math.IsInf(b.upperBound, 1) {
			break
		}
		if float64(b.cumulativeCount) >= rank {
			bucketCount := b.cumulativeCount - prevCount
			if bucketCount == 0 {
				return b.upperBound
			}
			fraction := (rank - float64(prevCount)) / float64(bucketCount)
			return prevBound + fraction*(b.upperBound-prevBound)
		}
		prevBound = b.upperBound
		prevCount = b.cumulativeCount
	}

	// Past every finite bucket: report the largest finite bound.
	for i := len(buckets) - 1; i >= 0; i-- {
		if !math.IsInf(buckets[i].upperBound, 1) {
			return buckets[i].upperBound
		}
	}
	return 0
}
