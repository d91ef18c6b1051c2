package survey

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayberkarici/fucom/internal/fucom"
)

const maxBodyBytes = 1 << 20

type Options struct {
	Submitter *Submitter
	Sessions  *SessionStore
	Catalog   fucom.Catalog
	WebDir    string
	Logger    zerolog.Logger
}

type Server struct {
	submitter *Submitter
	sessions  *SessionStore
	records   RecordStore
	catalog   fucom.Catalog
	web       fs.FS
	logger    zerolog.Logger
}

func NewServer(opts Options) http.Handler {
	s := &Server{
		submitter: opts.Submitter,
		sessions:  opts.Sessions,
		records:   opts.Submitter.Records(),
		catalog:   opts.Catalog,
		logger:    opts.Logger,
	}
	if opts.WebDir != "" {
		s.web = os.DirFS(opts.WebDir)
	}
	if s.sessions == nil {
		s.sessions = NewSessionStore(opts.Catalog, fucom.RegeneratePreserve, 0)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("POST /api/comparisons", s.handleComparisons)
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("GET /api/submissions", s.handleRecentSubmissions)
	mux.HandleFunc("GET /api/submissions/{token}", s.handleSubmission)
	mux.HandleFunc("GET /receipt/{token}", s.handleReceipt)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("PUT /api/sessions/{id}/demographics", s.handleSessionDemographics)
	mux.HandleFunc("PUT /api/sessions/{id}/orderings/{group}", s.handleSessionOrdering)
	mux.HandleFunc("POST /api/sessions/{id}/step", s.handleSessionStep)
	mux.HandleFunc("PUT /api/sessions/{id}/scores/{group}/{index}", s.handleSessionScore)
	mux.HandleFunc("POST /api/sessions/{id}/submit", s.handleSessionSubmit)

	mux.HandleFunc("GET /", s.handleRoot)
	return logRequests(s.logger, mux)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}

// handleRoot serves regular files of the survey UI; "/" maps to index.html.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if s.web == nil {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}
	info, err := fs.Stat(s.web, name)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFileFS(w, r, s.web, name)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type catalogGroup struct {
	Group    fucom.Group       `json:"group"`
	Criteria []fucom.Criterion `json:"criteria"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	groups := make([]catalogGroup, 0, len(fucom.Groups))
	for _, g := range fucom.Groups {
		groups = append(groups, catalogGroup{Group: g, Criteria: s.catalog.Group(g)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"groups": groups,
		"scale":  fucom.Scale,
	})
}

func (s *Server) handleComparisons(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ordering []fucom.Criterion `json:"ordering"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comparisons": fucom.GenerateComparisons(req.Ordering)})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var resp fucom.Response
	if !decodeJSON(w, r, &resp) {
		return
	}
	res, err := s.submitter.Submit(r.Context(), &resp)
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitPayload(res))
}

func submitPayload(res Result) map[string]any {
	out := map[string]any{
		"success":  true,
		"fileName": res.FileName,
		"fileId":   res.ObjectID,
		"token":    res.Token,
		"message":  msgSubmitted,
	}
	if res.ViewLink != "" {
		out["viewLink"] = res.ViewLink
	}
	return out
}

func (s *Server) writeSubmitError(w http.ResponseWriter, err error) {
	var serr *SubmitError
	if !errors.As(err, &serr) {
		s.logger.Error().Err(err).Msg("submit")
		writeError(w, http.StatusInternalServerError, msgUnknownFailure)
		return
	}
	body := map[string]any{"error": serr.Message}
	if serr.Code != "" {
		body["code"] = serr.Code
	}
	writeJSON(w, serr.Status(), body)
}

func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupRecord(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRecentSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	recs, err := s.records.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("list submissions")
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": recs})
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookupRecord(w, r)
	if !ok {
		return
	}
	page, err := RenderReceipt(rec)
	if err != nil {
		s.logger.Error().Err(err).Str("token", rec.Token).Msg("render receipt")
		writeError(w, http.StatusInternalServerError, "failed to render receipt")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func (s *Server) lookupRecord(w http.ResponseWriter, r *http.Request) (Record, bool) {
	token := r.PathValue("token")
	rec, ok, err := s.records.Get(r.Context(), token)
	if err != nil {
		s.logger.Error().Err(err).Str("token", token).Msg("get submission")
		writeError(w, http.StatusInternalServerError, "failed to load submission")
		return Record{}, false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "submission not found")
		return Record{}, false
	}
	return rec, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
