package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/status-im/token-supply/mirror"
	"github.com/status-im/token-supply/report"
	"github.com/status-im/token-supply/supply"
)

// handleCirculating aggregates the token named in the path.
// ?source= selects another allowed mirror node, ?treasury= may repeat or hold a comma separated list.
func (s *Server) handleCirculating(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	source := getParam(r, "source")
	if source == "" {
		source = s.cfg.Mirror.Host
	} else if !s.cfg.IsAllowedSource(source) {
		s.logger.Warn("rejected mirror source",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("source", source))
		s.sendJSONError(w, http.StatusBadRequest, "source "+source+" is not allowed")
		return
	}

	treasuries := []string{}
	for _, value := range r.URL.Query()["treasury"] {
		treasuries = append(treasuries, splitParam(value)...)
	}

	s.aggregate(w, r, source, token, treasuries)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, map[string][]string{
		"presets": s.cfg.PresetNames(),
	})
}

// handlePresetCirculating answers from the monitor's latest successful result
// when there is one. ?fresh=1 forces a live aggregation.
func (s *Server) handlePresetCirculating(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	preset, ok := s.cfg.Preset(name)
	if !ok {
		s.sendJSONError(w, http.StatusNotFound, "unknown preset "+name)
		return
	}

	if s.monitor != nil && getParam(r, "fresh") == "" {
		if snapshot, ok := s.monitor.Snapshot(name); ok && snapshot.Result != nil {
			w.Header().Set("Last-Modified", snapshot.LastSuccess.UTC().Format(http.TimeFormat))
			s.writeResult(w, r, snapshot.Result)
			return
		}
	}

	s.aggregate(w, r, preset.Source, preset.Token, preset.Treasuries)
}

// handlePresetsRefresh schedules an immediate monitor round
func (s *Server) handlePresetsRefresh(w http.ResponseWriter, r *http.Request) {
	if s.monitor == nil {
		s.sendJSONError(w, http.StatusServiceUnavailable, "monitor is disabled")
		return
	}

	s.monitor.Refresh()
	s.sendJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (s *Server) aggregate(w http.ResponseWriter, r *http.Request, source, token string, treasuries []string) {
	result, err := s.aggregator.Aggregate(r.Context(), source, token, treasuries)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			s.logger.Warn("aggregation failed",
				zap.String("request_id", requestIDFromContext(r.Context())),
				zap.String("token", token),
				zap.Error(err))
		}
		s.sendJSONError(w, status, err.Error())
		return
	}

	s.writeResult(w, r, result)
}

func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, result *supply.Result) {
	if getParam(r, "format") == report.FormatCSV {
		w.Header().Set("Content-Type", "text/csv")
		if err := report.WriteCSV(w, result); err != nil {
			s.logger.Error("error writing csv response", zap.Error(err))
		}
		return
	}

	s.sendJSONResponse(w, report.NewSupplyResponse(result))
}

// statusForError maps aggregation errors to HTTP statuses
func statusForError(err error) int {
	switch {
	case errors.Is(err, supply.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, supply.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mirror.ErrTransport), errors.Is(err, supply.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
