// Package orchestrator drives the periodic fetch-assess-persist cycle and
// reacts to operator directives between cycles.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/climatesense/climatesense/internal/directive"
	"github.com/climatesense/climatesense/internal/dispatch"
	"github.com/climatesense/climatesense/internal/enrich"
	"github.com/climatesense/climatesense/internal/news"
	"github.com/climatesense/climatesense/internal/observability"
	"github.com/climatesense/climatesense/internal/risk"
	"github.com/climatesense/climatesense/internal/store"
	"github.com/climatesense/climatesense/internal/weather"
)

// WeatherClient is the upstream weather data source.
type WeatherClient interface {
	CurrentWeather(ctx context.Context, location string) (weather.Snapshot, error)
	Forecast(ctx context.Context, location string) ([]weather.ForecastSample, error)
	AirPollution(ctx context.Context, lat, lon float64) (weather.AirQualityReading, error)
	UVIndex(ctx context.Context, lat, lon float64) (float64, error)
}

// RecordStore is the persistence surface the loop needs.
type RecordStore interface {
	Append(rec store.Record) error
	RecentByCity(city string, n int) []store.Record
	LatestByCity(city string) (store.Record, error)
}

// CoordinateResolver turns a location into coordinates when the weather
// snapshot does not carry them.
type CoordinateResolver interface {
	Enabled() bool
	Resolve(loc weather.Location) (lat, lon float64, err error)
}

// Config bundles the loop timing and sizing knobs.
type Config struct {
	CycleInterval time.Duration
	PollInterval  time.Duration
	TrendWindow   int
}

// Orchestrator owns the monitoring loop for one deployment.
type Orchestrator struct {
	cfg        Config
	weather    WeatherClient
	store      RecordStore
	directives *directive.File
	resolver   CoordinateResolver
	newsSource news.Source

	airQuality  *enrich.AirQualityAnalyzer
	trend       *enrich.TrendAnalyzer
	auditor     *enrich.ConsistencyAuditor
	recommender *enrich.Recommender
	newsDigest  *enrich.NewsAnalyzer
	completer   risk.Completer

	dispatchers []dispatch.Dispatcher

	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

func New(
	cfg Config,
	wc WeatherClient,
	st RecordStore,
	directives *directive.File,
	resolver CoordinateResolver,
	newsSource news.Source,
	completer enrich.TextCompleter,
	dispatchers []dispatch.Dispatcher,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		weather:     wc,
		store:       st,
		directives:  directives,
		resolver:    resolver,
		newsSource:  newsSource,
		airQuality:  enrich.NewAirQualityAnalyzer(completer, logger),
		trend:       enrich.NewTrendAnalyzer(completer, logger),
		auditor:     enrich.NewConsistencyAuditor(completer, logger),
		recommender: enrich.NewRecommender(completer, logger),
		newsDigest:  enrich.NewNewsAnalyzer(completer, logger),
		completer:   completerOrNil(completer),
		dispatchers: dispatchers,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

// completerOrNil keeps a typed-nil TextCompleter from masquerading as a
// usable risk.Completer.
func completerOrNil(c enrich.TextCompleter) risk.Completer {
	if c == nil {
		return nil
	}
	return c
}

// Run executes cycles until ctx is canceled. Between cycles it sleeps in
// short poll steps so control-file edits take effect without waiting out the
// full interval.
func (o *Orchestrator) Run(ctx context.Context) {
	o.metrics.LoopRunning.Set(1)
	defer o.metrics.LoopRunning.Set(0)

	locRaw := o.directives.Read().Location
	o.logger.Info("monitoring loop started", "location", locRaw, "interval", o.cfg.CycleInterval)

	for {
		if err := o.RunCycle(ctx, locRaw); err != nil {
			o.logger.Error("cycle failed", "location", locRaw, "error", err)
		}

		next, changed := o.waitNextCycle(ctx, locRaw)
		if ctx.Err() != nil {
			o.logger.Info("monitoring loop stopped")
			return
		}
		if changed {
			o.logger.Info("location directive changed", "from", locRaw, "to", next)
		}
		locRaw = next
	}
}

// waitNextCycle sleeps until the next cycle is due, re-reading the control
// file every poll interval. It returns early with changed=true when the
// directive's location moves away from lastLocation.
func (o *Orchestrator) waitNextCycle(ctx context.Context, lastLocation string) (string, bool) {
	deadline := o.clock.Now().Add(o.cfg.CycleInterval)
	for {
		remaining := deadline.Sub(o.clock.Now())
		if remaining <= 0 {
			return lastLocation, false
		}
		wait := o.cfg.PollInterval
		if wait > remaining {
			wait = remaining
		}
		select {
		case <-ctx.Done():
			return lastLocation, false
		case <-o.clock.After(wait):
		}
		if cur := o.directives.Read().Location; cur != lastLocation {
			o.metrics.DirectiveChanges.Inc()
			return cur, true
		}
	}
}

type fetchResult struct {
	snapshot    weather.Snapshot
	snapshotErr error

	samples     []weather.ForecastSample
	forecastErr error

	articles []news.Article
	newsErr  error
}

// RunCycle performs one full fetch-assess-persist pass for the location.
// A failed current-conditions or forecast fetch aborts the cycle; nothing is
// persisted from a partial read of the mandatory inputs.
func (o *Orchestrator) RunCycle(ctx context.Context, locationRaw string) error {
	o.metrics.CyclesTotal.Inc()
	started := o.clock.Now()
	defer func() {
		o.metrics.CycleDuration.Observe(o.clock.Since(started).Seconds())
	}()

	loc := weather.ParseLocation(locationRaw)
	o.logger.Info("cycle started", "city", loc.City)

	var res fetchResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		res.snapshot, res.snapshotErr = o.weather.CurrentWeather(ctx, locationRaw)
	}()
	go func() {
		defer wg.Done()
		res.samples, res.forecastErr = o.weather.Forecast(ctx, locationRaw)
	}()
	if o.newsSource != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res.articles, res.newsErr = o.newsSource.Fetch(ctx, loc.City, "monsoon")
		}()
	}
	wg.Wait()

	if res.snapshotErr != nil {
		o.metrics.FetchErrors.WithLabelValues("weather").Inc()
		o.metrics.CyclesAborted.Inc()
		return fmt.Errorf("fetching current conditions for %s: %w", loc.City, res.snapshotErr)
	}
	if res.forecastErr != nil {
		o.metrics.FetchErrors.WithLabelValues("forecast").Inc()
		o.metrics.CyclesAborted.Inc()
		return fmt.Errorf("fetching forecast for %s: %w", loc.City, res.forecastErr)
	}
	if res.newsErr != nil {
		o.metrics.FetchErrors.WithLabelValues("news").Inc()
		o.logger.Warn("news fetch failed", "city", loc.City, "error", res.newsErr)
	}

	snap := res.snapshot
	snap.Location = loc
	daily := weather.AggregateDaily(res.samples)

	aqReading, uv := o.fetchCoordinateBound(ctx, loc, snap)

	assessment := risk.ClassifyConditions(snap)
	heat := risk.ClassifyHeat(snap.TemperatureC, snap.HumidityPct)
	airQuality := o.airQuality.Analyze(ctx, aqReading)
	if airQuality.Narrative == enrich.AirQualityErrorNarrative {
		o.metrics.EnrichmentErrors.WithLabelValues("air_quality").Inc()
	}

	finalLevel, finalReasoning := risk.ResolveFinal(ctx, o.completer, assessment.Level, heat.Risk, airQuality.Index)
	if finalReasoning == risk.GenericFinalReasoning && o.completer != nil {
		o.metrics.EnrichmentErrors.WithLabelValues("final").Inc()
	}

	history := o.store.RecentByCity(loc.City, o.cfg.TrendWindow)
	trend := o.trend.Analyze(ctx, loc.City, history, finalLevel, airQuality.Index)
	if trend == enrich.TrendError {
		o.metrics.EnrichmentErrors.WithLabelValues("trend").Inc()
	}

	consistency := o.auditor.Audit(ctx, snap, airQuality.Index)
	if consistency == enrich.ConsistencyError {
		o.metrics.EnrichmentErrors.WithLabelValues("consistency").Inc()
	}

	report := risk.Report{
		PrimaryLevel:   assessment.Level,
		Reasoning:      assessment.Reasoning,
		Details:        assessment.Details,
		HeatRisk:       heat.Risk,
		HeatIndexC:     heat.IndexC,
		HeatWarning:    heat.Warning,
		AirQuality:     airQuality,
		FinalLevel:     finalLevel,
		FinalReasoning: finalReasoning,
		Trend:          trend,
	}

	recommendations := o.recommender.Recommend(ctx, report, daily)
	if recommendations == enrich.RecommendationError {
		o.metrics.EnrichmentErrors.WithLabelValues("recommendation").Inc()
	}

	newsSummary := o.newsDigest.Summarize(ctx, loc.City, res.articles)
	if newsSummary == enrich.NewsError {
		o.metrics.EnrichmentErrors.WithLabelValues("news").Inc()
	}

	rec := store.Record{
		ID:              uuid.NewString(),
		Timestamp:       o.clock.Now().UTC(),
		City:            loc.City,
		Report:          report,
		Recommendations: recommendations,
		NewsSummary:     newsSummary,
		Consistency:     consistency,
		Snapshot:        snap,
		Forecast:        daily,
		UVIndex:         uv,
	}
	if err := o.store.Append(rec); err != nil {
		o.metrics.CyclesAborted.Inc()
		return fmt.Errorf("persisting record for %s: %w", loc.City, err)
	}
	o.metrics.RecordsPersisted.Inc()

	if finalLevel.AtLeast(risk.LevelModerate) {
		o.dispatchAlert(ctx, rec)
	}

	o.logger.Info("cycle completed",
		"city", loc.City,
		"final_level", finalLevel,
		"primary_level", assessment.Level,
		"heat_risk", heat.Risk,
		"aqi", airQuality.Index)
	return nil
}

// fetchCoordinateBound fetches air quality and UV readings, which need
// coordinates. Coordinates come from the snapshot, then the geocoder, then
// the last persisted snapshot. Without any, both readings degrade.
func (o *Orchestrator) fetchCoordinateBound(ctx context.Context, loc weather.Location, snap weather.Snapshot) (weather.AirQualityReading, *float64) {
	lat, lon, ok := o.coordinates(loc, snap)
	if !ok {
		o.logger.Warn("no coordinates available, skipping air quality and uv", "city", loc.City)
		return weather.AirQualityReading{}, nil
	}

	var (
		reading weather.AirQualityReading
		aqErr   error
		uvValue float64
		uvErr   error
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		reading, aqErr = o.weather.AirPollution(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		uvValue, uvErr = o.weather.UVIndex(ctx, lat, lon)
	}()
	wg.Wait()

	if aqErr != nil {
		o.metrics.FetchErrors.WithLabelValues("air_quality").Inc()
		o.logger.Warn("air pollution fetch failed", "city", loc.City, "error", aqErr)
		reading = weather.AirQualityReading{}
	}
	var uv *float64
	if uvErr != nil {
		o.metrics.FetchErrors.WithLabelValues("uv").Inc()
		o.logger.Warn("uv index fetch failed", "city", loc.City, "error", uvErr)
	} else {
		uv = &uvValue
	}
	return reading, uv
}

func (o *Orchestrator) coordinates(loc weather.Location, snap weather.Snapshot) (float64, float64, bool) {
	if snap.HasCoordinates() {
		return snap.Lat, snap.Lon, true
	}
	if o.resolver != nil && o.resolver.Enabled() {
		lat, lon, err := o.resolver.Resolve(loc)
		if err == nil {
			return lat, lon, true
		}
		o.logger.Warn("geocoding failed", "city", loc.City, "error", err)
	}
	if last, err := o.store.LatestByCity(loc.City); err == nil && last.Snapshot.HasCoordinates() {
		return last.Snapshot.Lat, last.Snapshot.Lon, true
	}
	return 0, 0, false
}

func (o *Orchestrator) dispatchAlert(ctx context.Context, rec store.Record) {
	for _, d := range o.dispatchers {
		if err := d.Dispatch(ctx, rec); err != nil {
			o.logger.Error("alert dispatch failed", "city", rec.City, "error", err)
			continue
		}
		o.metrics.AlertsDispatched.Inc()
	}
}
