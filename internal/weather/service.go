package weather

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/ipma-weather/internal/domain"
	"github.com/couchcryptid/ipma-weather/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Service answers weather queries by joining IPMA resources against an
// in-memory cache of reference data. The cache starts empty and is filled
// by Initialize, either explicitly or on the first query that needs it.
type Service struct {
	upstream domain.Upstream
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock

	loadTimeout time.Duration

	ref  atomic.Pointer[referenceData]
	init singleflight.Group
}

// DefaultLoadTimeout caps an on-demand reference load.
const DefaultLoadTimeout = 30 * time.Second

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used to stamp reference loads.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLoadTimeout bounds an on-demand reference load. Defaults to
// DefaultLoadTimeout.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Service) { s.loadTimeout = d }
}

// New creates a Service with an empty reference cache.
func New(upstream domain.Upstream, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		upstream: upstream,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),

		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status describes the state of the reference cache.
type Status struct {
	Ready    bool               `json:"ready"`
	LoadedAt time.Time          `json:"loadedAt"`
	Counts   domain.InitSummary `json:"counts"`
}

// Initialize fetches the four reference collections concurrently and
// replaces the cache with them. If any fetch fails the others are cancelled,
// the cache keeps its previous contents, and that first error is returned.
func (s *Service) Initialize(ctx context.Context) (domain.InitSummary, error) {
	var next referenceData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		next.weatherTypes, err = s.upstream.FetchWeatherTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.windSpeeds, err = s.upstream.FetchWindSpeedClasses(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.districts, err = s.upstream.FetchDistricts(gctx)
		return err
	})
	g.Go(func() (err error) {
		next.islands, err = s.upstream.FetchIslands(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.metrics.ReferenceLoads.WithLabelValues("error").Inc()
		s.logger.Error("failed to load reference data", "error", err)
		return domain.InitSummary{}, err
	}

	next.loadedAt = s.clock.Now()
	next.index()
	s.ref.Store(&next)

	summary := next.summary()
	s.metrics.ReferenceLoads.WithLabelValues("success").Inc()
	s.metrics.ReferenceReady.Set(1)
	s.metrics.ReferenceEntries.WithLabelValues("weather_types").Set(float64(summary.WeatherTypes))
	s.metrics.ReferenceEntries.WithLabelValues("wind_speed_classes").Set(float64(summary.WindSpeedClasses))
	s.metrics.ReferenceEntries.WithLabelValues("districts").Set(float64(summary.Districts))
	s.metrics.ReferenceEntries.WithLabelValues("islands").Set(float64(summary.Islands))
	s.logger.Info("reference data loaded",
		"weather_types", summary.WeatherTypes,
		"wind_speed_classes", summary.WindSpeedClasses,
		"districts", summary.Districts,
		"islands", summary.Islands,
	)
	return summary, nil
}

// ensureReady returns the cached reference data, loading it first if the
// cache is empty. Concurrent callers share a single load. The load runs
// detached from any one caller's context, bounded by the load timeout, so
// a caller that gives up does not fail the others waiting on it.
func (s *Service) ensureReady(ctx context.Context) (*referenceData, error) {
	if ref := s.ref.Load(); ref != nil {
		return ref, nil
	}
	ch := s.init.DoChan("reference", func() (any, error) {
		if s.ref.Load() != nil {
			return nil, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		_, err := s.Initialize(loadCtx)
		return nil, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return s.ref.Load(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Status reports whether reference data is loaded and when.
func (s *Service) Status() Status {
	ref := s.ref.Load()
	if ref == nil {
		return Status{}
	}
	return Status{Ready: true, LoadedAt: ref.loadedAt, Counts: ref.summary()}
}

// CheckReadiness returns nil once reference data has been loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.ref.Load() == nil {
		return errors.New("reference data not loaded")
	}
	return nil
}

// GetLocations returns all districts followed by all islands, each in
// upstream order.
func (s *Service) GetLocations(ctx context.Context) ([]domain.LocationResult, error) {
	ref, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LocationResult, 0, len(ref.districts)+len(ref.islands))
	for _, group := range [][]domain.Location{ref.districts, ref.islands} {
		for _, loc := range group {
			out = append(out, domain.LocationResult{
				ID:        loc.ID,
				Name:      loc.Name,
				Type:      loc.Type,
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
			})
		}
	}
	return out, nil
}

// GetForecast resolves the queried district or island to its internal id,
// fetches the daily forecast, and joins each day against the lookup tables.
// An unresolvable location fails with domain.ErrNotFound before any
// forecast request is made.
func (s *Service) GetForecast(ctx context.Context, q domain.ForecastQuery) ([]domain.ForecastResult, error) {
	ref, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}

	loc, ok := ref.resolve(q)
	if !ok {
		return nil, domain.NotFound("location not found (district %d, island %d)", q.DistrictID, q.IslandID)
	}

	days, err := s.upstream.FetchForecast(ctx, loc.GlobalID)
	if err != nil {
		return nil, err
	}

	name := describe(loc.Name, true)
	out := make([]domain.ForecastResult, len(days))
	for i, day := range days {
		wt, wtOK := ref.weatherTypeByID[day.WeatherTypeID]
		ws, wsOK := ref.windSpeedByID[day.WindSpeedClass]
		if !wtOK {
			s.joinMiss("weather_type", loc, day.Date, day.WeatherTypeID)
		}
		if !wsOK {
			s.joinMiss("wind_speed", loc, day.Date, day.WindSpeedClass)
		}

		out[i] = domain.ForecastResult{
			Location:                 name,
			Date:                     day.Date,
			MinTemperature:           day.MinTemperature,
			MaxTemperature:           day.MaxTemperature,
			PrecipitationProbability: day.PrecipitationProb,
			WeatherType:              describe(wt.DescriptionEN, wtOK),
			WindDirection:            day.WindDirection,
			WindSpeed:                describe(ws.DescriptionEN, wsOK),
		}
	}
	return out, nil
}

func (s *Service) joinMiss(table string, loc domain.Location, date string, code int) {
	s.metrics.JoinMisses.WithLabelValues(table).Inc()
	s.logger.Warn("forecast code has no lookup entry",
		"table", table,
		"code", code,
		"location", loc.Name,
		"date", date,
	)
}

// GetCurrentWeather returns the latest station observations. It does not
// touch the reference cache; IPMA ships descriptions already joined.
func (s *Service) GetCurrentWeather(ctx context.Context) ([]domain.WeatherResult, error) {
	stations, err := s.upstream.FetchObservations(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.WeatherResult, len(stations))
	for i, st := range stations {
		out[i] = domain.WeatherResult{
			Location:      st.Location,
			Temperature:   st.Temperature,
			WeatherType:   describe(st.WeatherTypeEN, true),
			Humidity:      st.Humidity,
			WindDirection: st.WindDirection,
			WindIntensity: st.WindIntensity,
			RainIntensity: optional(st.PrecipitationIntensity),
			Pressure:      st.Pressure,
			UpdatedAt:     st.UpdatedAt,
		}
	}
	return out, nil
}

// GetWeatherTypes returns the cached weather-type table.
func (s *Service) GetWeatherTypes(ctx context.Context) ([]domain.LookupResult, error) {
	ref, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LookupResult, len(ref.weatherTypes))
	for i, wt := range ref.weatherTypes {
		out[i] = domain.LookupResult{ID: wt.ID, DescriptionPT: wt.DescriptionPT, DescriptionEN: wt.DescriptionEN}
	}
	return out, nil
}

// GetWindSpeedClasses returns the cached wind-speed class table.
func (s *Service) GetWindSpeedClasses(ctx context.Context) ([]domain.LookupResult, error) {
	ref, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LookupResult, len(ref.windSpeeds))
	for i, ws := range ref.windSpeeds {
		out[i] = domain.LookupResult{ID: ws.Class, DescriptionPT: ws.DescriptionPT, DescriptionEN: ws.DescriptionEN}
	}
	return out, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
