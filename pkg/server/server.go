// Package server is the interactive review surface: upload a Flare topic,
// review the suggested edits, accept or reject each one, apply, and download
// the cleaned file, the diff, or the suggestion table as CSV.
package server

import (
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/walteh/flarecheck/pkg/apply"
	"github.com/walteh/flarecheck/pkg/catalog"
	"github.com/walteh/flarecheck/pkg/grammar"
	"github.com/walteh/flarecheck/pkg/htmltext"
	"github.com/walteh/flarecheck/pkg/session"
	"github.com/walteh/flarecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// Uploads larger than this are rejected outright.
const maxUploadBytes = 8 << 20

// Options contains the server's dependencies.
type Options struct {
	Store   *session.Store
	Catalog *catalog.Catalog
	Checker grammar.Checker
}

// Server handles the review UI routes.
type Server struct {
	store    *session.Store
	catalog  *catalog.Catalog
	checker  grammar.Checker
	mux      *http.ServeMux
	indexTpl *template.Template
	revTpl   *template.Template
}

// New creates a review server with the given dependencies.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Catalog == nil {
		return nil, errors.New("rule catalog is required")
	}
	if opts.Checker == nil {
		return nil, errors.New("grammar checker is required (use grammar.Disabled{} for style-only)")
	}

	indexTpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, errors.Errorf("parsing index template: %w", err)
	}
	revTpl, err := template.New("review").Parse(reviewHTML)
	if err != nil {
		return nil, errors.Errorf("parsing review template: %w", err)
	}

	s := &Server{
		store:    opts.Store,
		catalog:  opts.Catalog,
		checker:  opts.Checker,
		mux:      http.NewServeMux(),
		indexTpl: indexTpl,
		revTpl:   revTpl,
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("GET /review/{id}", s.handleReview)
	s.mux.HandleFunc("POST /review/{id}/decisions", s.handleDecisions)
	s.mux.HandleFunc("GET /sessions/{id}/cleaned", s.handleDownloadCleaned)
	s.mux.HandleFunc("GET /sessions/{id}/diff", s.handleDownloadDiff)
	s.mux.HandleFunc("GET /sessions/{id}/suggestions.csv", s.handleDownloadCSV)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct{ RuleCount int }{RuleCount: s.catalog.Len()}
	if err := s.indexTpl.Execute(w, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("rendering index")
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("document")
	if err != nil {
		httpError(w, http.StatusBadRequest, errors.Errorf("reading upload: %w", err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		httpError(w, http.StatusBadRequest, errors.Errorf("reading upload: %w", err))
		return
	}

	doc := string(content)
	runs, err := htmltext.Extract(doc)
	if err != nil {
		// The one fatal input error: the document is not readable as text.
		httpError(w, http.StatusUnprocessableEntity, errors.Errorf("cannot process %s: %w", header.Filename, err))
		return
	}

	rules := s.catalog.RulesFor(header.Filename)
	scan := suggest.Scan(ctx, doc, runs, rules, s.checker)
	sess := s.store.Create(ctx, header.Filename, doc, scan)

	logger.Info().
		Str("session", sess.ID).
		Str("name", header.Filename).
		Int("suggestions", len(scan.Suggestions)).
		Bool("grammar_degraded", scan.GrammarDegraded).
		Msg("document uploaded")

	http.Redirect(w, r, "/review/"+sess.ID, http.StatusSeeOther)
}

// suggestionRow is one line of the review table.
type suggestionRow struct {
	Num       int
	Key       string
	Source    string
	RuleID    string
	Path      string
	Original  string
	Proposed  string
	Rationale string
	Accepted  bool
	Inline    template.HTML
}

type reviewData struct {
	Session   *session.Session
	Rows      []suggestionRow
	Degraded  bool
	Warning   string
	Applied   *apply.Result
	Diff      string
	Conflicts []apply.Conflict
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		httpError(w, http.StatusNotFound, err)
		return
	}

	data := reviewData{
		Session:  sess,
		Degraded: sess.Scan.GrammarDegraded,
		Warning:  sess.Scan.GrammarWarning,
		Applied:  sess.Applied,
	}
	if sess.Applied != nil {
		data.Diff = sess.Applied.UnifiedDiff
		data.Conflicts = sess.Applied.Conflicts
	}
	for i, sg := range sess.Scan.Suggestions {
		data.Rows = append(data.Rows, suggestionRow{
			Num:       i + 1,
			Key:       sg.Key(),
			Source:    string(sg.Source),
			RuleID:    sg.RuleID,
			Path:      sg.Path,
			Original:  sg.Original,
			Proposed:  sg.Proposed,
			Rationale: sg.Rationale,
			Accepted:  sess.Decisions[sg.Key()],
			Inline:    template.HTML(apply.InlineDiff(sg.Original, sg.Proposed)),
		})
	}

	if err := s.revTpl.Execute(w, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("rendering review page")
	}
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	sess, err := s.store.Get(id)
	if err != nil {
		httpError(w, http.StatusNotFound, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpError(w, http.StatusBadRequest, errors.Errorf("parsing form: %w", err))
		return
	}

	switch action := r.PostForm.Get("action"); action {
	case "accept-all":
		err = s.store.SetAll(id, true)
	case "reject-all":
		err = s.store.SetAll(id, false)
	case "save", "apply":
		checked := map[string]bool{}
		for _, key := range r.PostForm["accept"] {
			checked[key] = true
		}
		decisions := apply.Decisions{}
		for _, sg := range sess.Scan.Suggestions {
			decisions[sg.Key()] = checked[sg.Key()]
		}
		if err = s.store.SetDecisions(id, decisions); err == nil && action == "apply" {
			_, err = s.store.Apply(ctx, id)
		}
	default:
		httpError(w, http.StatusBadRequest, errors.Errorf("unknown action %q", action))
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	http.Redirect(w, r, "/review/"+id, http.StatusSeeOther)
}

func (s *Server) handleDownloadCleaned(w http.ResponseWriter, r *http.Request) {
	sess, res, ok := s.appliedSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cleaned_"+sess.Name))
	_, _ = io.WriteString(w, res.CleanedText)
}

func (s *Server) handleDownloadDiff(w http.ResponseWriter, r *http.Request) {
	sess, res, ok := s.appliedSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/x-diff; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.Name+".diff"))
	_, _ = io.WriteString(w, res.UnifiedDiff)
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		httpError(w, http.StatusNotFound, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="suggestions.csv"`)

	if err := suggest.WriteCSV(w, sess.Scan.Suggestions, sess.Decisions); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("writing suggestions CSV")
	}
}

// appliedSession fetches the session and its apply result, writing the
// proper error response when either is missing.
func (s *Server) appliedSession(w http.ResponseWriter, r *http.Request) (*session.Session, *apply.Result, bool) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		httpError(w, http.StatusNotFound, err)
		return nil, nil, false
	}
	if sess.Applied == nil {
		httpError(w, http.StatusConflict, errors.New("no changes applied yet"))
		return nil, nil, false
	}
	return sess, sess.Applied, true
}

func httpError(w http.ResponseWriter, status int, err error) {
	http.Error(w, err.Error(), status)
}
