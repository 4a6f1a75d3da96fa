package domain

// LocationType discriminates districts from islands.
type LocationType string

const (
	LocationDistrict LocationType = "district"
	LocationIsland   LocationType = "island"
)

// UnknownLabel replaces any description that cannot be resolved.
const UnknownLabel = "Unknown"

// Location is a district or island from the IPMA locations index.
type Location struct {
	ID             int    // public identifier (idDistrito)
	RegionID       int    // idRegiao
	WarningAreaID  string // idAreaAviso
	MunicipalityID *int   // idConcelho, absent for some entries
	GlobalID       int    // globalIdLocal, used only for forecast lookups
	Latitude       string
	Longitude      string
	Name           string
	Type           LocationType
}

// WeatherType maps a weather-type code to its descriptions.
type WeatherType struct {
	ID            int
	DescriptionEN string
	DescriptionPT string
}

// WindSpeedClass maps a daily wind-speed class to its descriptions.
type WindSpeedClass struct {
	Class         int
	DescriptionEN string
	DescriptionPT string
}

// ForecastDay is one day of the daily forecast for a single location.
type ForecastDay struct {
	PrecipitationProb *string // nil when upstream sends null
	MinTemperature    string
	MaxTemperature    string
	WindDirection     string
	WeatherTypeID     int
	WindSpeedClass    int
	Date              string
	GlobalID          int
	Latitude          string
	Longitude         string
}

// Observation is the latest snapshot reported for one station.
type Observation struct {
	GlobalID               int
	Location               string
	Temperature            string
	WeatherTypeID          int
	WeatherTypeEN          string
	WeatherTypePT          string
	Humidity               string
	WindDirection          string
	WindIntensity          string
	PrecipitationIntensity string
	Pressure               string
	UpdatedAt              string
}

// ForecastQuery selects the location to forecast. Zero means "not given".
// When both are set the district wins.
type ForecastQuery struct {
	DistrictID int
	IslandID   int
}
