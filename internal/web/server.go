// Package web serves the dashboard pages as HTML and as a JSON API.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockTracker/internal/dashboard"
	"StockTracker/internal/model"
	"StockTracker/internal/portfolio"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionCookie = "st_session"

var pageNames = []string{"overview", "analysis", "compare", "portfolio", "news", "history"}

// Server renders the dashboard.
type Server struct {
	dash     *dashboard.Dashboard
	sessions *portfolio.Sessions
	warnings []string
	pages    map[string]*template.Template

	// Timeout bounds one page pipeline.
	Timeout time.Duration
}

// NewServer parses the page templates. warnings are shown on every HTML page.
func NewServer(d *dashboard.Dashboard, sessions *portfolio.Sessions, warnings []string) (*Server, error) {
	s := &Server{
		dash:     d,
		sessions: sessions,
		warnings: warnings,
		pages:    make(map[string]*template.Template, len(pageNames)),
		Timeout:  60 * time.Second,
	}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		s.pages[name] = t
	}
	return s, nil
}

// RegisterRoutes registers all page and API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleOverview)
	mux.HandleFunc("GET /analysis", s.handleAnalysis)
	mux.HandleFunc("GET /compare", s.handleCompare)
	mux.HandleFunc("GET /portfolio", s.handlePortfolio)
	mux.HandleFunc("POST /portfolio", s.handleAddHolding)
	mux.HandleFunc("POST /portfolio/{id}/delete", s.handleDeleteHolding)
	mux.HandleFunc("GET /news", s.handleNews)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/overview", s.handleAPIOverview)
	mux.HandleFunc("GET /api/securities/{symbol}", s.handleAPISecurity)
	mux.HandleFunc("GET /api/securities/{symbol}/indicators", s.handleAPIIndicators)
	mux.HandleFunc("GET /api/compare", s.handleAPICompare)
	mux.HandleFunc("GET /api/portfolio", s.handleAPIPortfolio)
	mux.HandleFunc("POST /api/portfolio", s.handleAPIAddHolding)
	mux.HandleFunc("DELETE /api/portfolio/{id}", s.handleAPIDeleteHolding)
	mux.HandleFunc("GET /api/news/{symbol}", s.handleAPINews)
	mux.HandleFunc("GET /api/history", s.handleAPIHistory)
}

// Handler returns an http.Handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				log.Printf("[ERROR] panic serving %s %s: %v", r.Method, r.URL.Path, p)
				http.Error(rec, "internal error", http.StatusInternalServerError)
			}
			log.Printf("[INFO] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
		}()
		next.ServeHTTP(rec, r)
	})
}

func (s *Server) context(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.Timeout)
}

// session returns the caller's portfolio, issuing a cookie for new sessions.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *portfolio.Portfolio {
	var current string
	if c, err := r.Cookie(sessionCookie); err == nil {
		current = c.Value
	}
	id, p := s.sessions.Ensure(current)
	if id != current {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return p
}

// view is the data every HTML template receives.
type view struct {
	Title     string
	Active    string
	Warnings  []string
	Status    *dashboard.Status
	Page      any
	Query     url.Values
	FormError string
	Periods   []model.Period
	Intervals []model.Interval
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title string, code int, status *dashboard.Status, page any) {
	s.renderView(w, code, name, view{
		Title:     title,
		Active:    name,
		Warnings:  s.warnings,
		Status:    status,
		Page:      page,
		Query:     r.URL.Query(),
		Periods:   model.Periods,
		Intervals: model.Intervals,
	})
}

func (s *Server) renderView(w http.ResponseWriter, code int, name string, v view) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", v); err != nil {
		log.Printf("[ERROR] render %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// renderBadRequest shows a page whose parameters could not be parsed.
func (s *Server) renderBadRequest(w http.ResponseWriter, r *http.Request, name, title string, err error) {
	st := &dashboard.Status{State: dashboard.StateError, Message: err.Error()}
	s.render(w, r, name, title, http.StatusBadRequest, st, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusCode maps a page state to the JSON API's HTTP status.
func statusCode(st dashboard.State) int {
	switch st {
	case dashboard.StateNoData:
		return http.StatusNotFound
	case dashboard.StateConfigWarning:
		return http.StatusServiceUnavailable
	case dashboard.StateError:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// intsParam reads a comma-separated or repeated integer list.
func intsParam(r *http.Request, name string) []int {
	var out []int
	for _, raw := range r.URL.Query()[name] {
		for _, p := range strings.Split(raw, ",") {
			if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil && n > 0 {
				out = append(out, n)
			}
		}
	}
	return out
}

func boolParam(r *http.Request, name string) bool {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func symbolsParam(r *http.Request) []string {
	var out []string
	for _, raw := range r.URL.Query()["symbols"] {
		out = append(out, strings.Split(raw, ",")...)
	}
	return out
}

// analysisRequest parses the analysis parameters shared by HTML and JSON.
func analysisRequest(r *http.Request, symbol string) (dashboard.AnalysisRequest, error) {
	q := r.URL.Query()
	period, err := model.ParsePeriod(q.Get("period"), dashboard.DefaultAnalysisPeriod)
	if err != nil {
		return dashboard.AnalysisRequest{}, err
	}
	interval, err := model.ParseInterval(q.Get("interval"), model.IntervalDay)
	if err != nil {
		return dashboard.AnalysisRequest{}, err
	}
	return dashboard.AnalysisRequest{
		Symbol:    symbol,
		Period:    period,
		Interval:  interval,
		MAPeriods: intsParam(r, "ma"),
		ShortMA:   intParam(r, "short", 0),
		LongMA:    intParam(r, "long", 0),
	}, nil
}
