package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Label is a single key/value pair attached to a series.
type Label struct {
	Key   string
	Value string
}

// L is shorthand for constructing a Label.
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// Labels is an unordered label set. Two label sets are the same series
// identity when they hold the same pairs regardless of order.
type Labels []Label

// Keys returns the label keys in sorted order.
func (ls Labels) Keys() []string {
	keys := make([]string, len(ls))
	for i, l := range ls {
		keys[i] = l.Key
	}
	sort.Strings(keys)
	return keys
}

// Map converts the label set into prometheus.Labels.
// Duplicate keys keep the last value.
func (ls Labels) Map() prometheus.Labels {
	m := make(prometheus.Labels, len(ls))
	for _, l := range ls {
		m[l.Key] = l.Value
	}
	return m
}

// String renders the label set as key="value" pairs sorted by key.
func (ls Labels) String() string {
	sorted := make(Labels, len(ls))
	copy(sorted, ls)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var sb strings.Builder
	sb.WriteByte('{')
	for i, l := range sorted {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(l.Key)
		sb.WriteString(`="`)
		sb.WriteString(l.Value)
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String()
}

// keySignature is the canonical form of a sorted key list, used to detect
// writers that disagree on the label keys of a metric name.
func keySignature(keys []string) string {
	return strings.Join(keys, ",")
}

// hasDuplicateKeys reports whether sorted keys contain the same key twice.
func hasDuplicateKeys(sorted []string) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return true
		}
	}
	return false
}
