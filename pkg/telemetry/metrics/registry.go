package metrics

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"mercator-hq/pulse/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Kind is the type of a metric family.
type Kind string

const (
	// KindCounter is a monotonically increasing count.
	KindCounter Kind = "counter"
	// KindGauge is a last-write-wins value.
	KindGauge Kind = "gauge"
	// KindHistogram is a bucketed value distribution.
	KindHistogram Kind = "histogram"
)

// Metric names shared by the HTTP instrumentation and the bucket defaults.
const (
	MetricHTTPRequestsTotal   = "http_requests_total"
	MetricHTTPRequestDuration = "http_requests_duration_seconds"

	// MetricRejectedWrites counts writes dropped because their name or
	// label keys conflict with an existing family.
	MetricRejectedWrites = "pulse_registry_rejected_writes_total"
)

var (
	// ErrKindMismatch is returned when a metric name is reused with a
	// different metric type.
	ErrKindMismatch = errors.New("metric already registered with a different type")

	// ErrLabelMismatch is returned when a metric name is reused with a
	// different set of label keys.
	ErrLabelMismatch = errors.New("label keys do not match existing metric")

	// ErrDuplicateLabel is returned when a label set repeats a key.
	ErrDuplicateLabel = errors.New("duplicate label key")

	// ErrInvalidName is returned for metric or label names outside the
	// Prometheus name grammar.
	ErrInvalidName = errors.New("invalid metric or label name")
)

var (
	metricNameRE = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	labelNameRE  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// family is one metric name together with its fixed type, label keys and,
// for histograms, bucket boundaries.
type family struct {
	kind    Kind
	keys    []string
	sig     string
	buckets []float64

	counter   *prometheus.CounterVec
	gauge     *prometheus.GaugeVec
	histogram *prometheus.HistogramVec
}

// Registry is the process-wide store of counters, gauges and histograms.
//
// Families are created lazily on first write and are never removed. The
// type, label keys and bucket boundaries of a family are fixed when it is
// created. Every mutation of a single series is atomic; reads for export go
// through the underlying prometheus.Registry and never block writers for
// longer than a single series read.
//
// A Registry is safe for concurrent use. Construct one per process and pass
// it to every writer and to the exporter.
type Registry struct {
	prom    *prometheus.Registry
	buckets BucketConfig
	logger  *slog.Logger

	mu       sync.RWMutex
	families map[string]*family

	// rejectLogged deduplicates rejection logs per name and key signature.
	rejectLogged sync.Map
	rejected     *prometheus.CounterVec
}

// NewRegistry creates a Registry backed by reg. If reg is nil a fresh
// prometheus.Registry is created; the global default registerer is never
// used. Bucket rules are taken from cfg and validated.
//
// Example:
//
//	reg, err := metrics.NewRegistry(&cfg.Metrics, nil)
//	if err != nil {
//		return err
//	}
//	reg.IncrementCounter("weather_requests_success_total")
func NewRegistry(cfg *config.MetricsConfig, reg *prometheus.Registry) (*Registry, error) {
	buckets, err := BucketConfigFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid histogram buckets: %w", err)
	}
	return NewRegistryWithBuckets(buckets, reg)
}

// NewRegistryWithBuckets creates a Registry with an explicit bucket
// configuration.
func NewRegistryWithBuckets(buckets BucketConfig, reg *prometheus.Registry) (*Registry, error) {
	if err := buckets.Validate(); err != nil {
		return nil, fmt.Errorf("invalid histogram buckets: %w", err)
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Registry{
		prom:     reg,
		buckets:  buckets,
		logger:   slog.Default().With("component", "metrics.registry"),
		families: make(map[string]*family),
	}

	r.rejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricRejectedWrites,
			Help: "Metric writes dropped because of a type or label key conflict",
		},
		[]string{"name"},
	)
	if err := reg.Register(r.rejected); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", MetricRejectedWrites, err)
	}
	r.families[MetricRejectedWrites] = &family{
		kind:    KindCounter,
		keys:    []string{"name"},
		sig:     "name",
		counter: r.rejected,
	}

	return r, nil
}

// Describe declares a family up front with its type, help text and label
// keys. Writers call it at construction so conflicting declarations fail at
// startup instead of being dropped at runtime. Declaring the same family
// twice with the same type and keys is a no-op.
func (r *Registry) Describe(kind Kind, name, help string, keys ...string) error {
	ls := make(Labels, len(keys))
	for i, k := range keys {
		ls[i] = Label{Key: k}
	}
	_, err := r.lookup(kind, name, help, ls)
	return err
}

// IncrementCounter adds one to the counter series identified by name and
// labels, creating it if needed.
func (r *Registry) IncrementCounter(name string, labels ...Label) {
	f, err := r.lookup(KindCounter, name, "", labels)
	if err != nil {
		r.reject(name, labels, err)
		return
	}
	c, err := f.counter.GetMetricWith(Labels(labels).Map())
	if err != nil {
		r.reject(name, labels, err)
		return
	}
	c.Inc()
}

// SetGauge overwrites the gauge series identified by name and labels,
// creating it if needed.
func (r *Registry) SetGauge(name string, value float64, labels ...Label) {
	f, err := r.lookup(KindGauge, name, "", labels)
	if err != nil {
		r.reject(name, labels, err)
		return
	}
	g, err := f.gauge.GetMetricWith(Labels(labels).Map())
	if err != nil {
		r.reject(name, labels, err)
		return
	}
	g.Set(value)
}

// ObserveHistogram records value in the histogram series identified by name
// and labels. The first observation of a name fixes its bucket boundaries
// from the registry's BucketConfig.
func (r *Registry) ObserveHistogram(name string, value float64, labels ...Label) {
	f, err := r.lookup(KindHistogram, name, "", labels)
	if err != nil {
		r.reject(name, labels, err)
		return
	}
	h, err := f.histogram.GetMetricWith(Labels(labels).Map())
	if err != nil {
		r.reject(name, labels, err)
		return
	}
	h.Observe(value)
}

// Buckets returns the boundaries of a histogram family, or nil if name has
// not been created as a histogram.
func (r *Registry) Buckets(name string) []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.families[name]
	if !ok || f.kind != KindHistogram {
		return nil
	}
	return append([]float64(nil), f.buckets...)
}

// Gatherer exposes the underlying registry for promhttp and testutil.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.prom
}

// Register adds a collector that manages its own families, such as the
// database pool statistics collector. Its families are served alongside
// the ones written through the Registry.
func (r *Registry) Register(c prometheus.Collector) error {
	if err := r.prom.Register(c); err != nil {
		return fmt.Errorf("failed to register collector: %w", err)
	}
	return nil
}

// lookup returns the family for name, creating and registering it when it
// does not exist yet.
func (r *Registry) lookup(kind Kind, name, help string, labels Labels) (*family, error) {
	keys := labels.Keys()
	if hasDuplicateKeys(keys) {
		return nil, ErrDuplicateLabel
	}
	sig := keySignature(keys)

	r.mu.RLock()
	f, ok := r.families[name]
	r.mu.RUnlock()
	if ok {
		return f, f.check(kind, sig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if f, ok := r.families[name]; ok {
		return f, f.check(kind, sig)
	}

	if err := validateNames(name, keys); err != nil {
		return nil, err
	}

	f, err := r.newFamily(kind, name, help, keys)
	if err != nil {
		return nil, err
	}
	r.families[name] = f

	r.logger.Debug("metric family created",
		"name", name,
		"kind", string(kind),
		"labels", keys,
	)
	return f, nil
}

func (r *Registry) newFamily(kind Kind, name, help string, keys []string) (*family, error) {
	if help == "" {
		help = fmt.Sprintf("%s %s", name, kind)
	}

	f := &family{kind: kind, keys: keys, sig: keySignature(keys)}

	var collector prometheus.Collector
	switch kind {
	case KindCounter:
		f.counter = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, keys)
		collector = f.counter
	case KindGauge:
		f.gauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, keys)
		collector = f.gauge
	case KindHistogram:
		f.buckets = r.buckets.BucketsFor(name)
		f.histogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: f.buckets,
		}, keys)
		collector = f.histogram
	default:
		return nil, fmt.Errorf("unknown metric kind %q", kind)
	}

	if err := r.prom.Register(collector); err != nil {
		return nil, fmt.Errorf("failed to register %s %q: %w", kind, name, err)
	}
	return f, nil
}

func validateNames(name string, keys []string) error {
	if !metricNameRE.MatchString(name) {
		return fmt.Errorf("%w: metric %q", ErrInvalidName, name)
	}
	for _, k := range keys {
		if !labelNameRE.MatchString(k) || strings.HasPrefix(k, "__") {
			return fmt.Errorf("%w: label %q", ErrInvalidName, k)
		}
	}
	return nil
}

func (f *family) check(kind Kind, sig string) error {
	if f.kind != kind {
		return fmt.Errorf("%w: registered as %s, used as %s", ErrKindMismatch, f.kind, kind)
	}
	if f.sig != sig {
		return fmt.Errorf("%w: registered with [%s], used with [%s]", ErrLabelMismatch, f.sig, sig)
	}
	return nil
}

// reject counts a dropped write and logs it once per name and key set.
func (r *Registry) reject(name string, labels Labels, err error) {
	r.rejected.WithLabelValues(name).Inc()

	key := name + "|" + keySignature(labels.Keys())
	if _, seen := r.rejectLogged.LoadOrStore(key, struct{}{}); seen {
		return
	}
	r.logger.Error("metric write rejected",
		"name", name,
		"labels", labels.String(),
		"error", err,
	)
}
