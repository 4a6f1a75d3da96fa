package domain

// InitSummary reports how many entries each reference collection holds
// after a successful load.
type InitSummary struct {
	WeatherTypes     int `json:"weatherTypes"`
	WindSpeedClasses int `json:"windSpeedClasses"`
	Districts        int `json:"districts"`
	Islands          int `json:"islands"`
}

// LocationResult is the public shape of a district or island.
type LocationResult struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Type      LocationType `json:"type"`
	Latitude  string       `json:"latitude"`
	Longitude string       `json:"longitude"`
}

// ForecastResult is one forecast day joined against the lookup tables.
type ForecastResult struct {
	Location                 string  `json:"location"`
	Date                     string  `json:"date"`
	MinTemperature           string  `json:"minTemperature"`
	MaxTemperature           string  `json:"maxTemperature"`
	PrecipitationProbability *string `json:"precipitationProbability"`
	WeatherType              string  `json:"weatherType"`
	WindDirection            string  `json:"windDirection"`
	WindSpeed                string  `json:"windSpeed"`
}

// WeatherResult is the public shape of a station observation.
// Sunrise and Sunset are always nil; IPMA does not publish them.
type WeatherResult struct {
	Location      string  `json:"location"`
	Temperature   string  `json:"temperature"`
	WeatherType   string  `json:"weatherType"`
	Humidity      string  `json:"humidity"`
	WindDirection string  `json:"windDirection"`
	WindIntensity string  `json:"windIntensity"`
	RainIntensity *string `json:"rainIntensity"`
	Pressure      string  `json:"pressure"`
	Sunrise       *string `json:"sunrise"`
	Sunset        *string `json:"sunset"`
	UpdatedAt     string  `json:"updatedAt"`
}

// LookupResult is the public shape of a weather-type or wind-speed entry.
type LookupResult struct {
	ID            int    `json:"id"`
	DescriptionPT string `json:"descriptionPT"`
	DescriptionEN string `json:"descriptionEN"`
}
