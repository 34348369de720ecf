package tracing

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TestCreateSampler tests sampler creation
func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{
			name:     "always sampler",
			strategy: SamplerAlways,
			ratio:    0.0,
			wantErr:  false,
		},
		{
			name:     "never sampler",
			strategy: SamplerNever,
			ratio:    0.0,
			wantErr:  false,
		},
		{
			name:     "ratio sampler - 0%",
			strategy: SamplerRatio,
			ratio:    0.0,
			wantErr:  false,
		},
		{
			name:     "ratio sampler - 50%",
			strategy: SamplerRatio,
			ratio:    0.5,
			wantErr:  false,
		},
		{
			name:     "ratio sampler - 100%",
			strategy: SamplerRatio,
			ratio:    1.0,
			wantErr:  false,
		},
		{
			name:     "ratio sampler - invalid negative",
			strategy: SamplerRatio,
			ratio:    -0.1,
			wantErr:  true,
		},
		{
			name:     "ratio sampler - invalid > 1",
			strategy: SamplerRatio,
			ratio:    1.5,
			wantErr:  true,
		},
		{
			name:     "unknown strategy",
			strategy: "unknown",
			ratio:    0.5,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Errorf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && sampler == nil {
				t.Error("createSampler() returned nil sampler without error")
			}
		})
	}
}

// TestSamplerConstants tests sampler constant values
func TestSamplerConstants(t *testing.T) {
	// Verify constants have expected values
	if SamplerAlways != "always" {
		t.Errorf("SamplerAlways = %q, want %q", SamplerAlways, "always")
	}
	if SamplerNever != "never" {
		t.Errorf("SamplerNever = %q, want %q", SamplerNever, "never")
	}
	if SamplerRatio != "ratio" {
		t.Errorf("SamplerRatio = %q, want %q", SamplerRatio, "ratio")
	}
}

// TestCreateSampler_Decisions tests root-span sampling decisions
func TestCreateSampler_Decisions(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		want     sdktrace.SamplingDecision
	}{
		{strategy: SamplerAlways, want: sdktrace.RecordAndSample},
		{strategy: SamplerNever, want: sdktrace.Drop},
		{strategy: SamplerRatio, ratio: 1.0, want: sdktrace.RecordAndSample},
		{strategy: SamplerRatio, ratio: 0.0, want: sdktrace.Drop},
	}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if err != nil {
				t.Fatalf("createSampler() error = %v", err)
			}
			res := sampler.ShouldSample(sdktrace.SamplingParameters{
				ParentContext: context.Background(),
				TraceID:       traceID,
				Name:          "poll.cycle",
			})
			if res.Decision != tt.want {
				t.Errorf("Decision = %v, want %v", res.Decision, tt.want)
			}
		})
	}
}
