package ipma

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/ipma-weather/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Wire schemas. Required fields are pointers tagged `validate:"required"` so
// a missing or null field fails validation even when its zero value would be
// legal. Fields IPMA sends but nothing consumes are left undeclared and
// dropped by the decoder.

const (
	locationTypeDistrict = "D"
	locationTypeIsland   = "I"
)

// wireRecord is implemented by every wire schema.
type wireRecord[D any] interface {
	toDomain() D
}

type dataEnvelope struct {
	Data []json.RawMessage `json:"data" validate:"required"`
}

type observationEnvelope struct {
	Owner   *string           `json:"owner" validate:"required"`
	Country *string           `json:"country" validate:"required"`
	Data    []json.RawMessage `json:"data" validate:"required"`
}

type locationRecord struct {
	IDDistrito    *int    `json:"idDistrito" validate:"required"`
	IDRegiao      *int    `json:"idRegiao" validate:"required"`
	IDAreaAviso   *string `json:"idAreaAviso" validate:"required"`
	IDConcelho    *int    `json:"idConcelho"`
	GlobalIDLocal *int    `json:"globalIdLocal" validate:"required"`
	Latitude      *string `json:"latitude" validate:"required"`
	Longitude     *string `json:"longitude" validate:"required"`
	IDTipoLocal   *string `json:"idTipoLocal" validate:"required,oneof=D I"`
	Local         *string `json:"local" validate:"required"`
}

func (r locationRecord) toDomain() domain.Location {
	typ := domain.LocationDistrict
	if *r.IDTipoLocal == locationTypeIsland {
		typ = domain.LocationIsland
	}
	return domain.Location{
		ID:             *r.IDDistrito,
		RegionID:       *r.IDRegiao,
		WarningAreaID:  *r.IDAreaAviso,
		MunicipalityID: r.IDConcelho,
		GlobalID:       *r.GlobalIDLocal,
		Latitude:       *r.Latitude,
		Longitude:      *r.Longitude,
		Name:           *r.Local,
		Type:           typ,
	}
}

type weatherTypeRecord struct {
	IDWeatherType *int    `json:"idWeatherType" validate:"required"`
	DescEN        *string `json:"descIdWeatherTypeEN" validate:"required"`
	DescPT        *string `json:"descIdWeatherTypePT" validate:"required"`
}

func (r weatherTypeRecord) toDomain() domain.WeatherType {
	return domain.WeatherType{ID: *r.IDWeatherType, DescriptionEN: *r.DescEN, DescriptionPT: *r.DescPT}
}

type windSpeedRecord struct {
	ClassWindSpeed *int    `json:"classWindSpeed" validate:"required"`
	DescEN         *string `json:"descClassWindSpeedDailyEN" validate:"required"`
	DescPT         *string `json:"descClassWindSpeedDailyPT" validate:"required"`
}

func (r windSpeedRecord) toDomain() domain.WindSpeedClass {
	return domain.WindSpeedClass{Class: *r.ClassWindSpeed, DescriptionEN: *r.DescEN, DescriptionPT: *r.DescPT}
}

type forecastRecord struct {
	PrecipitaProb  *string `json:"precipitaProb"` // nullable
	TMin           *string `json:"tMin" validate:"required"`
	TMax           *string `json:"tMax" validate:"required"`
	PredWindDir    *string `json:"predWindDir" validate:"required"`
	IDWeatherType  *int    `json:"idWeatherType" validate:"required"`
	ClassWindSpeed *int    `json:"classWindSpeed" validate:"required"`
	Longitude      *string `json:"longitude" validate:"required"`
	Latitude       *string `json:"latitude" validate:"required"`
	GlobIDLocal    *int    `json:"globIdLocal" validate:"required"`
	ForecastDate   *string `json:"forecastDate" validate:"required"`
}

func (r forecastRecord) toDomain() domain.ForecastDay {
	return domain.ForecastDay{
		PrecipitationProb: r.PrecipitaProb,
		MinTemperature:    *r.TMin,
		MaxTemperature:    *r.TMax,
		WindDirection:     *r.PredWindDir,
		WeatherTypeID:     *r.IDWeatherType,
		WindSpeedClass:    *r.ClassWindSpeed,
		Date:              *r.ForecastDate,
		GlobalID:          *r.GlobIDLocal,
		Latitude:          *r.Latitude,
		Longitude:         *r.Longitude,
	}
}

type observationRecord struct {
	GlobalIDLocal        *int    `json:"globalIdLocal" validate:"required"`
	Local                *string `json:"local" validate:"required"`
	Temp                 *string `json:"temp" validate:"required"`
	IDWeatherType        *int    `json:"idWeatherType" validate:"required"`
	DescEN               *string `json:"descIdWeatherTypeEN" validate:"required"`
	DescPT               *string `json:"descIdWeatherTypePT" validate:"required"`
	Humidade             *string `json:"humidade" validate:"required"`
	DirecVento           *string `json:"direcVento" validate:"required"`
	IntensidadeVento     *string `json:"intensidadeVento" validate:"required"`
	IntensidadePrecipita *string `json:"intensidadePrecipita" validate:"required"`
	Pressao              *string `json:"pressao" validate:"required"`
	DataUpdate           *string `json:"dataUpdate" validate:"required"`
}

func (r observationRecord) toDomain() domain.Observation {
	return domain.Observation{
		GlobalID:               *r.GlobalIDLocal,
		Location:               *r.Local,
		Temperature:            *r.Temp,
		WeatherTypeID:          *r.IDWeatherType,
		WeatherTypeEN:          *r.DescEN,
		WeatherTypePT:          *r.DescPT,
		Humidity:               *r.Humidade,
		WindDirection:          *r.DirecVento,
		WindIntensity:          *r.IntensidadeVento,
		PrecipitationIntensity: *r.IntensidadePrecipita,
		Pressure:               *r.Pressao,
		UpdatedAt:              *r.DataUpdate,
	}
}

// decodeData parses a {"data": [...]} body and validates each element that
// passes keep. A nil keep accepts everything.
func decodeData[R any](v *validator.Validate, body []byte, keep func(json.RawMessage) bool) ([]R, error) {
	var env dataEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if err := v.Struct(env); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	return decodeItems[R](v, env.Data, keep)
}

// decodeObservations parses the observations body, which carries owner and
// country next to the data array.
func decodeObservations(v *validator.Validate, body []byte) ([]observationRecord, error) {
	var env observationEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if err := v.Struct(env); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	return decodeItems[observationRecord](v, env.Data, nil)
}

func decodeItems[R any](v *validator.Validate, items []json.RawMessage, keep func(json.RawMessage) bool) ([]R, error) {
	out := make([]R, 0, len(items))
	for i, raw := range items {
		if keep != nil && !keep(raw) {
			continue
		}
		var rec R
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
		if err := v.Struct(rec); err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// hasLocationType keeps raw location entries whose idTipoLocal equals code.
// Entries whose classifier is missing or not a string are dropped.
func hasLocationType(code string) func(json.RawMessage) bool {
	return func(raw json.RawMessage) bool {
		var probe struct {
			IDTipoLocal json.RawMessage `json:"idTipoLocal"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return false
		}
		var typ string
		if err := json.Unmarshal(probe.IDTipoLocal, &typ); err != nil {
			return false
		}
		return typ == code
	}
}
