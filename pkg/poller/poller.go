package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"mercator-hq/pulse/pkg/config"
	"mercator-hq/pulse/pkg/telemetry/metrics"
	"mercator-hq/pulse/pkg/telemetry/tracing"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Metric families owned by the poller in addition to the per-source
// counters and gauges.
const (
	MetricFetchDuration = "poller_fetch_duration_seconds"
	MetricCycles        = "poller_cycles_total"
)

// maxBodyBytes bounds how much of a source response is read.
const maxBodyBytes = 1 << 20

// Options are the optional collaborators of a Poller.
type Options struct {
	// Sources overrides DefaultSources.
	Sources []Source

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Tracer defaults to the global OpenTelemetry tracer provider.
	Tracer tracing.SpanStarter

	// Version is sent in the User-Agent header as pulse/<version>.
	Version string

	// Transport overrides the pooled HTTP transport. Trace context is
	// injected on top of it.
	Transport http.RoundTripper
}

// CycleSummary describes the most recent completed cycle.
type CycleSummary struct {
	Started   time.Time
	Duration  time.Duration
	Succeeded int
	Failed    int
	// Errors maps a failed source to its error text.
	Errors map[string]string
}

// Poller fetches every source on a schedule and records the results in the
// metric registry.
//
// A cycle fetches all sources concurrently and always waits for every fetch
// to finish. Failures of one source never affect the others: a failed fetch
// increments the source's fail counter and leaves its gauges at the last
// successful values.
type Poller struct {
	cfg       config.PollerConfig
	sources   []Source
	registry  *metrics.Registry
	client    *http.Client
	tracer    tracing.SpanStarter
	logger    *slog.Logger
	userAgent string

	target    *Target
	targetErr error

	mu      sync.RWMutex
	last    *CycleSummary
	running bool
	wg      sync.WaitGroup
}

// New creates a poller and declares its metric families. A missing or
// malformed target URL is not an error here; it is reported by Start, so
// the caller can keep serving without polling.
func New(cfg *config.PollerConfig, reg *metrics.Registry, opts Options) (*Poller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("poller configuration is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("metric registry is required")
	}

	sources := opts.Sources
	if sources == nil {
		sources = DefaultSources()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("mercator-hq/pulse/poller")
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	base := opts.Transport
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: len(sources),
			IdleConnTimeout:     cfg.IdleConnTimeout,
			ForceAttemptHTTP2:   true,
		}
	}

	p := &Poller{
		cfg:       *cfg,
		sources:   sources,
		registry:  reg,
		client:    &http.Client{Transport: &tracing.Transport{Base: base}},
		tracer:    tracer,
		logger:    logger.With("component", "poller"),
		userAgent: "pulse/" + version,
	}
	p.target, p.targetErr = ParseTarget(cfg.TargetURL)

	if err := p.describe(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Poller) describe() error {
	for _, src := range p.sources {
		if err := p.registry.Describe(metrics.KindCounter, src.SuccessCounter(),
			fmt.Sprintf("Successful fetches of the %s source.", src.Name)); err != nil {
			return fmt.Errorf("failed to declare %s: %w", src.SuccessCounter(), err)
		}
		if err := p.registry.Describe(metrics.KindCounter, src.FailCounter(),
			fmt.Sprintf("Failed fetches of the %s source.", src.Name)); err != nil {
			return fmt.Errorf("failed to declare %s: %w", src.FailCounter(), err)
		}
		for _, g := range src.Gauges {
			if err := p.registry.Describe(metrics.KindGauge, g,
				fmt.Sprintf("Last value reported by the %s source.", src.Name)); err != nil {
				return fmt.Errorf("failed to declare %s: %w", g, err)
			}
		}
	}

	if err := p.registry.Describe(metrics.KindHistogram, MetricFetchDuration,
		"Duration of source fetches in seconds.", "source", "outcome"); err != nil {
		return fmt.Errorf("failed to declare %s: %w", MetricFetchDuration, err)
	}
	if err := p.registry.Describe(metrics.KindCounter, MetricCycles,
		"Completed poll cycles."); err != nil {
		return fmt.Errorf("failed to declare %s: %w", MetricCycles, err)
	}
	return nil
}

// Target returns the parsed target, or nil when it is missing or malformed.
func (p *Poller) Target() *Target {
	return p.target
}

// Start launches the poll loop in the background. It returns the target
// error without starting anything when the target URL is missing or
// malformed. The loop stops when ctx is cancelled; Wait blocks until it has.
func (p *Poller) Start(ctx context.Context) error {
	if p.cfg.Disabled {
		p.logger.Info("poller disabled")
		return nil
	}
	if p.targetErr != nil {
		p.logger.Error("poller not started", "error", p.targetErr)
		return p.targetErr
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("poller already running")
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			p.running = false
			p.mu.Unlock()
		}()
		if err := p.Run(ctx); err != nil {
			p.logger.Error("poller stopped", "error", err)
		}
	}()
	return nil
}

// Wait blocks until a loop started with Start has returned.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// Run polls until ctx is cancelled. Without a schedule it runs a cycle,
// waits Interval after the cycle has finished, and repeats. With a cron
// schedule it runs one cycle immediately and then on every tick, skipping
// ticks that fire while a cycle is still in flight.
func (p *Poller) Run(ctx context.Context) error {
	if p.targetErr != nil {
		return p.targetErr
	}

	p.logger.Info("poller started",
		"target", p.target.String(),
		"interval", p.cfg.Interval,
		"schedule", p.cfg.Schedule,
		"sources", len(p.sources),
	)

	if p.cfg.Schedule != "" {
		return p.runScheduled(ctx)
	}
	return p.runFixedDelay(ctx)
}

func (p *Poller) runFixedDelay(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			p.logger.Info("poller stopped")
			return nil
		}

		p.Cycle(ctx)

		timer := time.NewTimer(p.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Info("poller stopped")
			return nil
		case <-timer.C:
		}
	}
}

func (p *Poller) runScheduled(ctx context.Context) error {
	cl := cronLogger{logger: p.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(p.cfg.Schedule, func() { p.Cycle(ctx) }); err != nil {
		return fmt.Errorf("invalid poll schedule %q: %w", p.cfg.Schedule, err)
	}

	p.Cycle(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	p.logger.Info("poller stopped")
	return nil
}

// Cycle fetches every source concurrently, records each outcome, and
// returns the outcomes in source order. It returns nil when the target is
// missing or malformed.
func (p *Poller) Cycle(ctx context.Context) []Outcome {
	if p.target == nil {
		return nil
	}

	started := time.Now()
	ctx, span := p.tracer.Start(ctx, "poller.cycle")
	defer span.End()

	outcomes := make([]Outcome, len(p.sources))
	var wg sync.WaitGroup
	for i, src := range p.sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = p.fetch(ctx, src)
			p.record(src, outcomes[i])
		}()
	}
	wg.Wait()

	p.registry.IncrementCounter(MetricCycles)

	summary := summarize(started, outcomes)
	p.mu.Lock()
	p.last = summary
	p.mu.Unlock()

	span.SetAttributes(
		attribute.Int("pulse.poller.succeeded", summary.Succeeded),
		attribute.Int("pulse.poller.failed", summary.Failed),
	)
	p.logger.Debug("poll cycle completed",
		"duration", summary.Duration,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return outcomes
}

func (p *Poller) fetch(ctx context.Context, src Source) Outcome {
	url := p.target.Resolve(src.Path)

	ctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	ctx, span := p.tracer.Start(ctx, "poller.fetch "+src.Name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	reading, err := p.get(ctx, src, url)
	out := Outcome{
		Source:   src.Name,
		Reading:  reading,
		Err:      err,
		Duration: time.Since(start),
	}

	tracing.SetSourceAttributes(span, src.Name, url, outcomeLabel(out))
	if err != nil {
		tracing.SetError(span, err)
		var fe *FetchError
		if errors.As(err, &fe) {
			tracing.SetErrorType(span, string(fe.Kind))
		}
	}
	return out
}

func (p *Poller) get(ctx context.Context, src Source, url string) (Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewFetchError(src.Name, KindTransport, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	p.logger.Debug("fetching source", "source", src.Name, "url", url)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, NewFetchError(src.Name, classify(ctx, err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		fe := NewFetchError(src.Name, KindStatus, nil)
		fe.StatusCode = resp.StatusCode
		return nil, fe
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, NewFetchError(src.Name, classify(ctx, err), err)
	}

	reading, err := src.Decode(body)
	if err != nil {
		return nil, NewFetchError(src.Name, KindDecode, err)
	}
	return reading, nil
}

func classify(ctx context.Context, err error) FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindTransport
}

func (p *Poller) record(src Source, out Outcome) {
	if out.OK() {
		p.registry.IncrementCounter(src.SuccessCounter())
		for _, g := range out.Reading {
			p.registry.SetGauge(g.Name, g.Value)
		}
	} else {
		p.registry.IncrementCounter(src.FailCounter())
		p.logger.Warn("source fetch failed",
			"source", src.Name,
			"duration", out.Duration,
			"error", out.Err,
		)
	}

	p.registry.ObserveHistogram(MetricFetchDuration, out.Duration.Seconds(),
		metrics.L("source", src.Name),
		metrics.L("outcome", outcomeLabel(out)),
	)
}

func outcomeLabel(out Outcome) string {
	if out.OK() {
		return "success"
	}
	return "fail"
}

func summarize(started time.Time, outcomes []Outcome) *CycleSummary {
	s := &CycleSummary{
		Started:  started,
		Duration: time.Since(started),
	}
	for _, o := range outcomes {
		if o.OK() {
			s.Succeeded++
			continue
		}
		s.Failed++
		if s.Errors == nil {
			s.Errors = make(map[string]string)
		}
		s.Errors[o.Source] = o.Err.Error()
	}
	return s
}

// LastCycle returns a copy of the most recent cycle summary, or nil if no
// cycle has completed.
func (p *Poller) LastCycle() *CycleSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.last == nil {
		return nil
	}
	c := *p.last
	if p.last.Errors != nil {
		c.Errors = make(map[string]string, len(p.last.Errors))
		for k, v := range p.last.Errors {
			c.Errors[k] = v
		}
	}
	return &c
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
