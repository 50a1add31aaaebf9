package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/internship-matcher/internal/accepted"
	"github.com/spigell/internship-matcher/internal/ai"
	"github.com/spigell/internship-matcher/internal/filtering"
	"github.com/spigell/internship-matcher/internal/logger"
	"github.com/spigell/internship-matcher/internal/matching"
)

// matchRequest keeps raw values so absent keys can be told apart from null
// or empty ones.
type matchRequest struct {
	Skills    json.RawMessage `json:"skills"`
	Interests json.RawMessage `json:"interests"`
	Location  json.RawMessage `json:"location"`
}

func (req matchRequest) profile() (matching.Profile, error) {
	var missing []string
	if req.Skills == nil {
		missing = append(missing, "skills")
	}
	if req.Interests == nil {
		missing = append(missing, "interests")
	}
	if req.Location == nil {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return matching.Profile{}, &matching.InvalidProfileError{Fields: missing}
	}

	skills, err := matching.ParseTerms(req.Skills)
	if err != nil {
		return matching.Profile{}, &ErrBadRequest{Err: fmt.Errorf("skills: %w", err)}
	}
	interests, err := matching.ParseTerms(req.Interests)
	if err != nil {
		return matching.Profile{}, &ErrBadRequest{Err: fmt.Errorf("interests: %w", err)}
	}

	var location *string
	if err := json.Unmarshal(req.Location, &location); err != nil {
		return matching.Profile{}, &ErrBadRequest{Err: errors.New("location must be a string")}
	}
	if location == nil {
		return matching.Profile{}, &matching.InvalidProfileError{Fields: []string{"location"}}
	}

	return matching.NewProfile(skills, interests, *location), nil
}

type letterResponse struct {
	Template string `json:"template"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	profile, err := req.profile()
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	results, err := s.ranker.Rank(r.Context(), profile, s.catalog)
	if err != nil {
		var catalogErr *matching.CatalogReadError
		if errors.As(err, &catalogErr) {
			s.metrics.IncCatalogError()
		}
		s.writeError(r.Context(), w, err)
		return
	}

	s.jsonResponse(r.Context(), w, http.StatusOK, results)
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	var record accepted.Record
	if err := s.decode(w, r, &record); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if err := s.validator.Struct(record); err != nil {
		s.writeError(r.Context(), w, validationError(err))
		return
	}

	if err := s.accepted.Append(record); err != nil {
		logger.FromContext(r.Context(), s.logger).Error("recording accepted match failed",
			append(logger.ListingFields(record.Title, record.Company), zap.Error(err))...,
		)
		s.errorResponse(r.Context(), w, http.StatusInternalServerError, "failed to record acceptance")
		return
	}

	s.counters.IncAccepted()

	logger.FromContext(r.Context(), s.logger).Info("match accepted",
		logger.ListingFields(record.Title, record.Company)...,
	)

	s.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(r.Context(), w, http.StatusOK, s.counters.Snapshot())
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	var req ai.LetterRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.writeError(r.Context(), w, validationError(err))
		return
	}

	letter, err := s.letters.Write(r.Context(), req)
	if err != nil {
		s.metrics.IncLetter("error")
		s.writeError(r.Context(), w, err)
		return
	}
	s.metrics.IncLetter("ok")

	s.jsonResponse(r.Context(), w, http.StatusOK, letterResponse{Template: letter})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(r.Context(), w, http.StatusOK, filtering.Describe(s.filters))
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrBadRequest{Err: err}
	}
	return nil
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(ctx, s.logger).Warn("encoding JSON response failed", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(ctx context.Context, w http.ResponseWriter, status int, message string) {
	s.jsonResponse(ctx, w, status, map[string]string{"error": message})
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status < http.StatusInternalServerError {
		s.errorResponse(ctx, w, status, err.Error())
		return
	}

	logger.FromContext(ctx, s.logger).Error("request failed", zap.Error(err))

	message := "internal server error"
	var catalogErr *matching.CatalogReadError
	if errors.As(err, &catalogErr) {
		message = "failed to read the catalog"
	}
	s.errorResponse(ctx, w, status, message)
}
