// Package web serves the query page and the JSON API in front of a
// solvetrace.Solver.
package web

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/solvetrace/solvetrace/pkg/solvetrace"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/classify"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/history"
)

const maxBodyBytes = 1 << 20 // 1 MiB

//go:embed index.html
var indexHTML string

// Server answers queries over HTTP. A nil Journal disables the audit
// log; nothing is ever read back from it while answering.
type Server struct {
	solver    *solvetrace.Solver
	journal   history.Store
	mode      classify.Mode
	histLimit int
	log       *zap.Logger
	tmpl      *template.Template
}

// Options configures a Server.
type Options struct {
	Solver  *solvetrace.Solver
	Journal history.Store
	Mode    classify.Mode
	// HistoryLimit caps how many records a history listing may return.
	// Zero means the store default.
	HistoryLimit int
	Log          *zap.Logger
}

// New builds a Server. Solver is required; a nil Log means no request
// logging.
func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		solver:    opts.Solver,
		journal:   opts.Journal,
		mode:      opts.Mode,
		histLimit: opts.HistoryLimit,
		log:       log,
		tmpl:      template.Must(template.New("index").Parse(indexHTML)),
	}
}

// Handler returns the routed handler with logging and panic recovery
// wrapped around it.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/solve", s.handleSolve)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return s.withLogging(s.withRecovery(mux))
}

// pageData feeds the query page template.
type pageData struct {
	Query    string
	Answered bool
	Resolved bool
	Values   []string
	Steps    []string
}

// handleIndex renders the query page. A POST answers the submitted
// form and re-renders the page with the steps inline.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var data pageData
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		query := r.FormValue("query")
		mode := s.requestMode(r.FormValue("kind"))
		out := s.solver.Answer(solvetrace.Request{Query: query, Mode: mode})
		s.record(r, query, mode, out)

		data = pageData{
			Query:    query,
			Answered: true,
			Resolved: out.Form != solvetrace.Absent,
			Values:   out.Values,
			Steps:    out.Steps,
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error("render index", zap.Error(err))
	}
}

type solveRequest struct {
	Query string `json:"query"`
	Kind  string `json:"kind"`
}

type solveResponse struct {
	Result any      `json:"result"`
	Steps  []string `json:"steps"`
}

// handleSolve answers a JSON query. The result field is null when no
// value was produced, a string for single-valued operations, and an
// array of strings for equation solving.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req solveRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No query provided"})
		return
	}

	mode := s.requestMode(req.Kind)
	out := s.solver.Answer(solvetrace.Request{Query: req.Query, Mode: mode})
	s.record(r, req.Query, mode, out)

	resp := solveResponse{Steps: out.Steps}
	switch out.Form {
	case solvetrace.Single:
		resp.Result = out.Values[0]
	case solvetrace.Many:
		resp.Result = out.Values
	}
	writeJSON(w, http.StatusOK, resp)
}

type historyResponse struct {
	Enabled bool             `json:"enabled"`
	Records []history.Record `json:"records"`
}

// handleHistory lists recent journal records, newest first. With the
// journal disabled it reports enabled=false and an empty list.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := historyResponse{Records: []history.Record{}}
	if s.journal == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if s.histLimit > 0 && (limit <= 0 || limit > s.histLimit) {
		limit = s.histLimit
	}
	records, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error("journal recent", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "journal unavailable"})
		return
	}

	resp.Enabled = true
	if len(records) > 0 {
		resp.Records = records
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// requestMode resolves the per-request mode, falling back to the
// server default when the field is empty.
func (s *Server) requestMode(kind string) classify.Mode {
	if kind == "" {
		return s.mode
	}
	return classify.ParseMode(kind)
}

// record appends the answered query to the journal when one is
// configured. Journal failures are logged and never fail the request.
func (s *Server) record(r *http.Request, query string, mode classify.Mode, out solvetrace.Outcome) {
	if s.journal == nil {
		return
	}
	rec := history.NewRecord(query, mode.String(), out)
	if err := s.journal.Append(r.Context(), rec); err != nil {
		s.log.Error("journal append", zap.Error(err), zap.String("record_id", rec.ID))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
