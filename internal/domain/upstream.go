package domain

import "context"

// Upstream fetches raw IPMA resources. Implementations return errors of
// type *Error only.
type Upstream interface {
	FetchWeatherTypes(ctx context.Context) ([]WeatherType, error)
	FetchWindSpeedClasses(ctx context.Context) ([]WindSpeedClass, error)
	FetchDistricts(ctx context.Context) ([]Location, error)
	FetchIslands(ctx context.Context) ([]Location, error)

	// FetchForecast returns the daily forecast for an internal location id (globalIdLocal).
	FetchForecast(ctx context.Context, globalID int) ([]ForecastDay, error)

	FetchObservations(ctx context.Context) ([]Observation, error)
}
