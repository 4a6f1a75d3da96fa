package weather

import (
	"time"

	"github.com/couchcryptid/ipma-weather/internal/domain"
)

// referenceData is one complete, immutable load of the four reference
// collections. It is swapped in as a unit, so readers never see a mix of
// two loads.
type referenceData struct {
	weatherTypes []domain.WeatherType
	windSpeeds   []domain.WindSpeedClass
	districts    []domain.Location
	islands      []domain.Location
	loadedAt     time.Time

	weatherTypeByID map[int]domain.WeatherType
	windSpeedByID   map[int]domain.WindSpeedClass
}

// index builds the code lookups. The first entry wins on duplicate codes.
func (r *referenceData) index() {
	r.weatherTypeByID = make(map[int]domain.WeatherType, len(r.weatherTypes))
	for _, wt := range r.weatherTypes {
		if _, dup := r.weatherTypeByID[wt.ID]; !dup {
			r.weatherTypeByID[wt.ID] = wt
		}
	}
	r.windSpeedByID = make(map[int]domain.WindSpeedClass, len(r.windSpeeds))
	for _, ws := range r.windSpeeds {
		if _, dup := r.windSpeedByID[ws.Class]; !dup {
			r.windSpeedByID[ws.Class] = ws
		}
	}
}

func (r *referenceData) summary() domain.InitSummary {
	return domain.InitSummary{
		WeatherTypes:     len(r.weatherTypes),
		WindSpeedClasses: len(r.windSpeeds),
		Districts:        len(r.districts),
		Islands:          len(r.islands),
	}
}

// resolve finds the location a forecast query targets. A district id takes
// precedence over an island id.
func (r *referenceData) resolve(q domain.ForecastQuery) (domain.Location, bool) {
	switch {
	case q.DistrictID != 0:
		return findByID(r.districts, q.DistrictID)
	case q.IslandID != 0:
		return findByID(r.islands, q.IslandID)
	default:
		return domain.Location{}, false
	}
}

func findByID(locs []domain.Location, id int) (domain.Location, bool) {
	for _, loc := range locs {
		if loc.ID == id {
			return loc, true
		}
	}
	return domain.Location{}, false
}

func describe(desc string, ok bool) string {
	if !ok || desc == "" {
		return domain.UnknownLabel
	}
	return desc
}
