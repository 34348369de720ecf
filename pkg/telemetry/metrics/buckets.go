package metrics

import (
	"fmt"
	"math"
	"strings"

	"mercator-hq/pulse/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// MatchKind selects how a bucket rule pattern is compared to a metric name.
type MatchKind string

const (
	// MatchFull matches when the metric name equals the pattern.
	MatchFull MatchKind = "full"
	// MatchPrefix matches when the metric name starts with the pattern.
	MatchPrefix MatchKind = "prefix"
	// MatchSuffix matches when the metric name ends with the pattern.
	MatchSuffix MatchKind = "suffix"
)

// RequestDurationBuckets are the boundaries used for request latency
// histograms, in seconds.
var RequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}

// Matcher decides whether a bucket rule applies to a metric name.
type Matcher struct {
	Kind    MatchKind
	Pattern string
}

// Matches reports whether name satisfies the matcher.
func (m Matcher) Matches(name string) bool {
	switch m.Kind {
	case MatchFull:
		return name == m.Pattern
	case MatchPrefix:
		return strings.HasPrefix(name, m.Pattern)
	case MatchSuffix:
		return strings.HasSuffix(name, m.Pattern)
	default:
		return false
	}
}

// BucketRule binds a list of histogram boundaries to the metric names
// selected by its matcher.
type BucketRule struct {
	Matcher Matcher
	Buckets []float64
}

// BucketConfig is an ordered list of bucket rules with a fallback. Rules are
// evaluated in order and the first match wins.
type BucketConfig struct {
	Rules   []BucketRule
	Default []float64
}

// DefaultBucketConfig returns the rule set used when nothing is configured:
// request latency gets RequestDurationBuckets, everything else gets
// prometheus.DefBuckets.
func DefaultBucketConfig() BucketConfig {
	return BucketConfig{
		Rules: []BucketRule{
			{
				Matcher: Matcher{Kind: MatchFull, Pattern: MetricHTTPRequestDuration},
				Buckets: RequestDurationBuckets,
			},
		},
		Default: prometheus.DefBuckets,
	}
}

// BucketsFor returns a copy of the boundaries for the given metric name.
func (bc BucketConfig) BucketsFor(name string) []float64 {
	for _, rule := range bc.Rules {
		if rule.Matcher.Matches(name) {
			return append([]float64(nil), rule.Buckets...)
		}
	}
	if len(bc.Default) == 0 {
		return append([]float64(nil), prometheus.DefBuckets...)
	}
	return append([]float64(nil), bc.Default...)
}

// Validate checks that every rule has a known matcher, a pattern, and
// strictly ascending finite boundaries.
func (bc BucketConfig) Validate() error {
	for i, rule := range bc.Rules {
		switch rule.Matcher.Kind {
		case MatchFull, MatchPrefix, MatchSuffix:
		default:
			return fmt.Errorf("bucket rule %d: unknown match kind %q", i, rule.Matcher.Kind)
		}
		if rule.Matcher.Pattern == "" {
			return fmt.Errorf("bucket rule %d: pattern is required", i)
		}
		if err := validateBoundaries(rule.Buckets); err != nil {
			return fmt.Errorf("bucket rule %d (%s:%s): %w", i, rule.Matcher.Kind, rule.Matcher.Pattern, err)
		}
	}
	if len(bc.Default) > 0 {
		if err := validateBoundaries(bc.Default); err != nil {
			return fmt.Errorf("default buckets: %w", err)
		}
	}
	return nil
}

func validateBoundaries(buckets []float64) error {
	if len(buckets) == 0 {
		return fmt.Errorf("buckets must not be empty")
	}
	for i, b := range buckets {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return fmt.Errorf("bucket %d is not finite", i)
		}
		if i > 0 && b <= buckets[i-1] {
			return fmt.Errorf("buckets must be strictly ascending (%g after %g)", b, buckets[i-1])
		}
	}
	return nil
}

// BucketConfigFromConfig converts the YAML metrics section into a
// BucketConfig. Configured rules are evaluated before the built-in request
// latency rule so operators can override it.
func BucketConfigFromConfig(cfg *config.MetricsConfig) (BucketConfig, error) {
	bc := DefaultBucketConfig()
	if cfg == nil {
		return bc, nil
	}

	rules := make([]BucketRule, 0, len(cfg.Buckets)+len(bc.Rules))
	for _, r := range cfg.Buckets {
		rules = append(rules, BucketRule{
			Matcher: Matcher{Kind: MatchKind(r.Match), Pattern: r.Pattern},
			Buckets: r.Buckets,
		})
	}
	bc.Rules = append(rules, bc.Rules...)

	if len(cfg.DefaultBuckets) > 0 {
		bc.Default = cfg.DefaultBuckets
	}

	if err := bc.Validate(); err != nil {
		return BucketConfig{}, err
	}
	return bc, nil
}
