package poller

import (
	"strings"
	"testing"
)

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources()
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}

	weather, lux := sources[0], sources[1]
	if weather.SuccessCounter() != "weather_requests_success_total" {
		t.Errorf("unexpected success counter %q", weather.SuccessCounter())
	}
	if lux.FailCounter() != "lux_requests_fail_total" {
		t.Errorf("unexpected fail counter %q", lux.FailCounter())
	}
	if weather.Path != "/weather" || lux.Path != "/lux" {
		t.Errorf("unexpected paths %q, %q", weather.Path, lux.Path)
	}
}

func TestDecodeWeather(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Reading
		wantErr string
	}{
		{
			name: "all fields",
			body: `{"humidity": 41.5, "pressure": 1013.2, "temp": 21.4}`,
			want: Reading{
				{Name: "weather_humidity", Value: 41.5},
				{Name: "weather_pressure", Value: 1013.2},
				{Name: "weather_temperature", Value: 21.4},
			},
		},
		{
			name: "extra fields ignored",
			body: `{"humidity": 1, "pressure": 2, "temp": 3, "unit": "C", "ts": "2024-01-01T00:00:00Z"}`,
			want: Reading{
				{Name: "weather_humidity", Value: 1},
				{Name: "weather_pressure", Value: 2},
				{Name: "weather_temperature", Value: 3},
			},
		},
		{
			name:    "missing temp",
			body:    `{"humidity": 1, "pressure": 2}`,
			wantErr: `missing field "temp"`,
		},
		{
			name:    "non-numeric",
			body:    `{"humidity": "wet", "pressure": 2, "temp": 3}`,
			wantErr: "invalid weather response",
		},
		{
			name:    "not json",
			body:    `<html>`,
			wantErr: "invalid weather response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeWeather([]byte(tt.body))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d gauges, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("gauge %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeLux(t *testing.T) {
	got, err := decodeLux([]byte(`{"lux": 320}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "lux_in_the_room" || got[0].Value != 320 {
		t.Errorf("unexpected reading %+v", got)
	}

	if _, err := decodeLux([]byte(`{}`)); err == nil {
		t.Error("expected error for missing lux field")
	}
}
