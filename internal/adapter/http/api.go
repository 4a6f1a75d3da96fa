package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/couchcryptid/ipma-weather/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := s.svc.GetLocations(r.Context())
	s.respond(w, r, locs, err)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var q domain.ForecastQuery
	var err error
	if q.DistrictID, err = queryID(r, "districtId"); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}
	if q.IslandID, err = queryID(r, "islandId"); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}

	days, err := s.svc.GetForecast(r.Context(), q)
	s.respond(w, r, days, err)
}

func (s *Server) handleObservations(w http.ResponseWriter, r *http.Request) {
	obs, err := s.svc.GetCurrentWeather(r.Context())
	s.respond(w, r, obs, err)
}

func (s *Server) handleWeatherTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.svc.GetWeatherTypes(r.Context())
	s.respond(w, r, types, err)
}

func (s *Server) handleWindSpeedClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.svc.GetWindSpeedClasses(r.Context())
	s.respond(w, r, classes, err)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Initialize(r.Context())
	s.respond(w, r, summary, err)
}

// respond writes v as JSON, or maps err to a status and error body.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err == nil {
		sharedobs.WriteJSON(w, http.StatusOK, v)
		return
	}

	status := statusFor(err)
	code := string(domain.KindOf(err))
	msg := err.Error()
	var apiErr *domain.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	if code == "" {
		code = "INTERNAL"
	}

	s.logger.Warn("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	sharedobs.WriteJSON(w, status, errorBody{Code: code, Message: msg})
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindNetwork:
		return http.StatusServiceUnavailable
	case domain.KindInvalidResponse, domain.KindValidation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// queryID parses an optional positive integer query parameter. Absent means 0.
func queryID(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return id, nil
}
