package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/server"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/state"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures an [App].
type Options struct {
	Searcher  services.Searcher
	History   repositories.Recorder // optional
	Logger    *log.Logger
	AdminCode string
}

// App is the browser front end. It implements [server.Handler].
type App struct {
	searcher services.Searcher
	history  repositories.Recorder
	logger   *log.Logger
	sessions *sessionStore
	tmpl     *template.Template
	router   *server.BasicRouter
}

var _ server.Handler = (*App)(nil)

// page is the template data for every view.
type page struct {
	state.Snapshot
	Seq     uint64
	Formats []formatter.Format
}

// New parses the embedded templates and registers the routes.
func New(opts Options) (*App, error) {
	if opts.Searcher == nil {
		return nil, fmt.Errorf("%w: searcher", shared.ErrMissingArgument)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	tmpl, err := template.New("").
		Funcs(template.FuncMap{"duration": shared.FormatDuration}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		searcher: opts.Searcher,
		history:  opts.History,
		logger:   opts.Logger,
		sessions: newSessionStore(opts.AdminCode),
		tmpl:     tmpl,
		router:   server.NewBasicRouter(),
	}

	a.router.Use(server.RecoverMiddleware(a.logger), server.LoggingMiddleware(a.logger))
	a.router.HandleFunc(http.MethodGet, "/", a.handleIndex)
	a.router.HandleFunc(http.MethodGet, "/search", a.handleSearch)
	a.router.HandleFunc(http.MethodPost, "/select", a.handleSelect)
	a.router.HandleFunc(http.MethodPost, "/add", a.handleAdd)
	a.router.HandleFunc(http.MethodPost, "/delete", a.handleDelete)
	a.router.HandleFunc(http.MethodPost, "/code", a.handleCode)
	a.router.HandleFunc(http.MethodPost, "/sidebar", a.handleSidebar)
	a.router.HandleFunc(http.MethodGet, "/export", a.handleExport)

	return a, nil
}

// Routes returns the paths served by the app.
func (a *App) Routes() []string {
	return []string{"/", "/search", "/select", "/add", "/delete", "/code", "/sidebar", "/export"}
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.acquire(w, r)

	sess.mu.Lock()
	p := a.page(sess)
	sess.mu.Unlock()

	a.render(w, "index", p)
}

// handleSearch issues a search for q and renders the suggestion fragment.
//
// Responses to superseded searches answer 204 so the browser keeps the newer fragment.
func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.acquire(w, r)
	q := r.URL.Query().Get("q")

	sess.mu.Lock()
	req := sess.state.SetQuery(q)
	ctx := sess.inflight.Start(r.Context())
	sess.mu.Unlock()

	res := state.Run(ctx, a.searcher, req, a.logger)

	sess.mu.Lock()
	applied := req.Skip || sess.state.Apply(res)
	p := a.page(sess)
	sess.mu.Unlock()

	if !applied {
		a.logger.Debug("stale search response dropped", "query", req.Query, "seq", req.Seq)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	a.render(w, "results", p)
}

// handleSelect selects a suggestion by position. The form carries the sequence number the
// suggestions were rendered for; a mismatch means the list changed and the click is ignored.
func (a *App) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.acquire(w, r)

	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		http.Error(w, "", http.StatusBadRequest)
		return
	}
	seq, err := strconv.ParseUint(r.FormValue("seq"), 10, 64)
	if err != nil {
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	if seq == sess.state.Latest() {
		if err := sess.state.SelectAt(index); err != nil {
			a.logger.Debug("select ignored", "index", index, "error", err)
		}
	}
	p := a.page(sess)
	sess.mu.Unlock()

	a.render(w, "app", p)
}

func (a *App) handleAdd(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.acquire(w, r)

	sess.mu.Lock()
	err := sess.state.SelectFirst()
	p := a.page(sess)
	sess.mu.Unlock()

	if err != nil {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	a.render(w, "app", p)
}

func (a *App) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.acquire(w, r)

	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	err = sess.state.Delete(index)
	p := a.page(sess)
	sess.mu.Unlock()

	if errors.Is(err, shared.ErrAdminRequired) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if err != nil {
		a.logger.Debug("delete ignored", "index", index, "error", err)
	}
	a.render(w, "app", p)
}

func (a *App) handleCode(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.acquire(w, r)

	sess.mu.Lock()
	sess.state.SetCode(r.FormValue("code"))
	p := a.page(sess)
	sess.mu.Unlock()

	a.render(w, "app", p)
}

func (a *App) handleSidebar(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.acquire(w, r)

	sess.mu.Lock()
	sess.state.ToggleSidebar()
	p := a.page(sess)
	sess.mu.Unlock()

	a.render(w, "app", p)
}

// handleExport answers with the encoded selection list as an attachment.
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := a.sessions.acquire(w, r)

	f, err := formatter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	data, err := sess.state.Export(f)
	count := len(sess.state.Selection())
	sess.mu.Unlock()

	switch {
	case errors.Is(err, shared.ErrAdminRequired):
		w.WriteHeader(http.StatusForbidden)
		return
	case err != nil:
		a.logger.Error("export failed", "format", f, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	a.record(f, count)

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Filename()))
	w.Write(data)
}

func (a *App) record(f formatter.Format, count int) {
	a.logger.Info("playlist exported", "format", f, "tracks", count)
	if a.history == nil {
		return
	}
	if _, err := a.history.Record(string(f), f.Filename(), count); err != nil {
		a.logger.Warn("failed to record export", "error", err)
	}
}

// page builds template data. Callers hold sess.mu.
func (a *App) page(sess *session) page {
	return page{
		Snapshot: sess.state.Snapshot(),
		Seq:      sess.state.Latest(),
		Formats:  []formatter.Format{formatter.FormatJSON, formatter.FormatCSV, formatter.FormatMarkdown},
	}
}

// render buffers the named template and writes it only when execution succeeds.
func (a *App) render(w http.ResponseWriter, name string, data page) {
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		a.logger.Error("template failed", "template", name, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
