package poller

import (
	"encoding/json"
	"fmt"
	"time"
)

// Gauge is one named value taken from a source response.
type Gauge struct {
	Name  string
	Value float64
}

// Reading is the ordered set of gauges decoded from one response.
type Reading []Gauge

// Source is one endpoint of the polled service.
type Source struct {
	// Name prefixes the source's counters: <name>_requests_success_total
	// and <name>_requests_fail_total.
	Name string

	// Path is resolved against the target URL.
	Path string

	// Gauges lists the gauge names Decode produces, in order.
	Gauges []string

	// Decode turns a response body into a reading. Missing or non-numeric
	// fields are errors; unknown fields are ignored.
	Decode func(body []byte) (Reading, error)
}

// SuccessCounter is the name of the counter incremented on a successful fetch.
func (s Source) SuccessCounter() string {
	return s.Name + "_requests_success_total"
}

// FailCounter is the name of the counter incremented on a failed fetch.
func (s Source) FailCounter() string {
	return s.Name + "_requests_fail_total"
}

// Outcome is the result of fetching one source in a cycle.
type Outcome struct {
	Source   string
	Reading  Reading
	Err      error
	Duration time.Duration
}

// OK reports whether the fetch succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// DefaultSources returns the weather and lux sources.
func DefaultSources() []Source {
	return []Source{
		{
			Name:   "weather",
			Path:   "/weather",
			Gauges: []string{"weather_humidity", "weather_pressure", "weather_temperature"},
			Decode: decodeWeather,
		},
		{
			Name:   "lux",
			Path:   "/lux",
			Gauges: []string{"lux_in_the_room"},
			Decode: decodeLux,
		},
	}
}

type weatherBody struct {
	Humidity *float64 `json:"humidity"`
	Pressure *float64 `json:"pressure"`
	Temp     *float64 `json:"temp"`
}

func decodeWeather(body []byte) (Reading, error) {
	var w weatherBody
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("invalid weather response: %w", err)
	}
	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"humidity", w.Humidity},
		{"pressure", w.Pressure},
		{"temp", w.Temp},
	} {
		if f.value == nil {
			return nil, fmt.Errorf("missing field %q", f.name)
		}
	}
	return Reading{
		{Name: "weather_humidity", Value: *w.Humidity},
		{Name: "weather_pressure", Value: *w.Pressure},
		{Name: "weather_temperature", Value: *w.Temp},
	}, nil
}

type luxBody struct {
	Lux *float64 `json:"lux"`
}

func decodeLux(body []byte) (Reading, error) {
	var l luxBody
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("invalid lux response: %w", err)
	}
	if l.Lux == nil {
		return nil, fmt.Errorf("missing field %q", "lux")
	}
	return Reading{{Name: "lux_in_the_room", Value: *l.Lux}}, nil
}
