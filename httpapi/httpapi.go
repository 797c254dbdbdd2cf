// Package httpapi exposes Verify/Analyze over HTTP (spec.md §6.1).
// Predicates aren't serializable, so the wire surface only runs the named
// scenario registry, not arbitrary traces with arbitrary predicates.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/xid"

	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/scenario"
	"github.com/sarchlab/axverify/verify"
)

// Server wires the HTTP handlers to an in-memory scenario registry and a
// logger, the way the teacher's driverImpl wires ports at construction time.
type Server struct {
	log       *slog.Logger
	scenarios map[string]*scenario.Scenario
}

// NewServer builds a Server over the built-in scenario registry.
func NewServer(log *slog.Logger) (*Server, error) {
	all, err := scenario.All()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*scenario.Scenario, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}
	return &Server{log: log, scenarios: byName}, nil
}

// Router builds the gorilla/mux router for this server.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware)
	r.HandleFunc("/scenarios", s.handleListScenarios).Methods(http.MethodGet)
	r.HandleFunc("/traces/verify", s.handleVerify).Methods(http.MethodPost)
	return r
}

type requestIDKey struct{}

// requestIDMiddleware tags every request with an xid and logs entry/exit,
// mirroring the teacher's per-PE coordinate tagging in core/emu.go.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xid.New()
		s.log.Info("request started", "request_id", id.String(), "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(contextWithRequestID(r.Context(), id)))
		s.log.Info("request finished", "request_id", id.String(), "path", r.URL.Path)
	})
}

// scenarioSummary is the JSON shape GET /scenarios returns per scenario.
type scenarioSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Expected    string `json:"expected"`
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	all, err := scenario.All()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	summaries := make([]scenarioSummary, 0, len(all))
	for _, sc := range all {
		summaries = append(summaries, scenarioSummary{
			Name:        sc.Name,
			Description: sc.Description,
			Expected:    sc.Expected.String(),
		})
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

// verifyRequest is the body of POST /traces/verify: a scenario name to run.
// Any other field in the body (a trace, for instance) is ignored by the
// decoder; the registered scenario's own trace and predicates are used,
// since an arbitrary trace has no predicate to pair it with over the wire.
type verifyRequest struct {
	Scenario string `json:"scenario"`
}

type verifyResponse struct {
	Scenario string          `json:"scenario"`
	Outcome  string          `json:"outcome"`
	Witness  []witnessRowDTO `json:"witness,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

type witnessRowDTO struct {
	Rank     int    `json:"rank"`
	Event    int    `json:"event"`
	Thread   int    `json:"thread"`
	Kind     string `json:"kind"`
	Addr     int    `json:"addr"`
	Value    int    `json:"value"`
	Mode     string `json:"mode"`
	RFSource int    `json:"rf_source,omitempty"`
	HasRF    bool   `json:"has_rf"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	sc, ok := s.scenarios[req.Scenario]
	if !ok {
		s.writeError(w, r, http.StatusNotFound, unknownScenarioError(req.Scenario))
		return
	}

	res, _, err := sc.Run(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	resp := verifyResponse{Scenario: sc.Name, Outcome: res.Outcome.String()}
	switch res.Outcome {
	case csp.Sat:
		resp.Witness = toWitnessDTO(res.Witness)
	case csp.Unknown:
		resp.Reason = res.Reason
	}

	s.log.Info("verify completed", "request_id", requestIDFromContext(r.Context()), "scenario", sc.Name, "outcome", resp.Outcome)
	s.writeJSON(w, http.StatusOK, resp)
}

func toWitnessDTO(w *verify.Witness) []witnessRowDTO {
	rows := make([]witnessRowDTO, len(w.Rows))
	for i, row := range w.Rows {
		rows[i] = witnessRowDTO{
			Rank:     row.Rank,
			Event:    row.Event.ID,
			Thread:   row.Event.Thread,
			Kind:     string(row.Event.Kind),
			Addr:     row.Event.Addr,
			Value:    row.Value,
			Mode:     string(row.Event.Mode),
			RFSource: row.RFSource,
			HasRF:    row.HasRF,
		}
	}
	return rows
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.Warn("request failed", "request_id", requestIDFromContext(r.Context()), "error", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
