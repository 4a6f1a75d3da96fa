// Package domain models the reference data, forecasts, and station
// observations published by IPMA (Instituto Português do Mar e da Atmosfera).
//
// # Data Source
//
// All data comes from the IPMA open-data REST API rooted at
// https://api.ipma.pt/open-data. Every resource is a JSON document whose
// payload sits under a top-level "data" key.
//
// # Locations
//
// Districts and islands share one resource (distrits-islands.json) and are
// told apart by "idTipoLocal": "D" for districts, "I" for islands. Each entry
// carries two identifiers:
//
//	idDistrito     public identifier, unique within its type only
//	               (district 1 and island 1 both exist)
//	globalIdLocal  internal identifier required by the forecast resource,
//	               e.g. 1010500 for Braga
//
// Callers always address a location by its public identifier; the internal
// identifier is looked up from the cached location lists. Coordinates are
// decimal strings and are passed through untouched.
//
// # Lookup Tables
//
// Forecast days reference two code tables by number:
//
//	idWeatherType   → weather-type-classe.json      (e.g. 1 = "Clear sky")
//	classWindSpeed  → wind-speed-daily-classe.json  (e.g. 1 = "Weak")
//
// A code with no table entry is not an error; the description degrades to
// [UnknownLabel].
//
// # Units
//
// Temperatures, humidity, pressure, and precipitation probability arrive as
// strings (°C, %, hPa, %). They are not parsed, so upstream formatting
// ("10", "10.0", "-99.0") reaches callers unchanged. IPMA uses -99 as its own
// sentinel for missing observations.
package domain
