package metrics

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Snapshot is an immutable copy of every family in the registry at the
// moment it was gathered. Each series is read atomically; no ordering is
// implied between series.
type Snapshot struct {
	families []*dto.MetricFamily
	byName   map[string]*dto.MetricFamily
}

// BucketCount is one cumulative histogram bucket.
type BucketCount struct {
	UpperBound float64
	Count      uint64
}

// HistogramValue is the state of a single histogram series.
type HistogramValue struct {
	Buckets []BucketCount
	Sum     float64
	Count   uint64
}

// Snapshot gathers the registry into an immutable view.
func (r *Registry) Snapshot() (*Snapshot, error) {
	mfs, err := r.prom.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	s := &Snapshot{
		families: mfs,
		byName:   make(map[string]*dto.MetricFamily, len(mfs)),
	}
	for _, mf := range mfs {
		s.byName[mf.GetName()] = mf
	}
	return s, nil
}

// Families returns the gathered families sorted by name.
func (s *Snapshot) Families() []*dto.MetricFamily {
	return s.families
}

// Counter returns the value of a counter series.
func (s *Snapshot) Counter(name string, labels ...Label) (float64, bool) {
	m, ok := s.find(name, dto.MetricType_COUNTER, labels)
	if !ok {
		return 0, false
	}
	return m.GetCounter().GetValue(), true
}

// Gauge returns the value of a gauge series.
func (s *Snapshot) Gauge(name string, labels ...Label) (float64, bool) {
	m, ok := s.find(name, dto.MetricType_GAUGE, labels)
	if !ok {
		return 0, false
	}
	return m.GetGauge().GetValue(), true
}

// Histogram returns the buckets, sum and count of a histogram series.
func (s *Snapshot) Histogram(name string, labels ...Label) (HistogramValue, bool) {
	m, ok := s.find(name, dto.MetricType_HISTOGRAM, labels)
	if !ok {
		return HistogramValue{}, false
	}
	h := m.GetHistogram()
	hv := HistogramValue{
		Sum:     h.GetSampleSum(),
		Count:   h.GetSampleCount(),
		Buckets: make([]BucketCount, 0, len(h.GetBucket())),
	}
	for _, b := range h.GetBucket() {
		hv.Buckets = append(hv.Buckets, BucketCount{
			UpperBound: b.GetUpperBound(),
			Count:      b.GetCumulativeCount(),
		})
	}
	return hv, true
}

// SeriesCount returns the number of series across all families.
func (s *Snapshot) SeriesCount() int {
	n := 0
	for _, mf := range s.families {
		n += len(mf.GetMetric())
	}
	return n
}

func (s *Snapshot) find(name string, typ dto.MetricType, labels Labels) (*dto.Metric, bool) {
	mf, ok := s.byName[name]
	if !ok || mf.GetType() != typ {
		return nil, false
	}
	want := labels.Map()
	for _, m := range mf.GetMetric() {
		if len(m.GetLabel()) != len(want) {
			continue
		}
		match := true
		for _, lp := range m.GetLabel() {
			if v, ok := want[lp.GetName()]; !ok || v != lp.GetValue() {
				match = false
				break
			}
		}
		if match {
			return m, true
		}
	}
	return nil, false
}

// WriteTo renders the snapshot in the Prometheus text exposition format.
// Families are ordered by name and series by label values, so rendering the
// same snapshot twice produces identical bytes.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	families := s.families
	if !sort.SliceIsSorted(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	}) {
		families = append([]*dto.MetricFamily(nil), families...)
		sort.Slice(families, func(i, j int) bool {
			return families[i].GetName() < families[j].GetName()
		})
	}

	var written int64
	for _, mf := range families {
		n, err := expfmt.MetricFamilyToText(w, mf)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("failed to encode %q: %w", mf.GetName(), err)
		}
	}
	return written, nil
}

// Render returns the current registry contents in the Prometheus text
// exposition format. It has no side effects on the registry.
func (r *Registry) Render() ([]byte, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := snap.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Handler returns an HTTP handler for the metrics endpoint.
//
// The handler serves the plain text exposition format and is safe to call
// concurrently with any number of writers. Gather errors are logged and the
// families that could be collected are still served.
//
// Example:
//
//	mux.Handle("GET /metrics", reg.Handler())
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(
		r.prom,
		promhttp.HandlerOpts{
			// Plain text only; OpenMetrics negotiation is left off
			EnableOpenMetrics: false,

			ErrorHandling: promhttp.ContinueOnError,

			ErrorLog: slog.NewLogLogger(r.logger.Handler(), slog.LevelError),
		},
	)
}
