package web

import (
	"errors"
	"log"
	"net/http"

	"StockTracker/internal/dashboard"
	"StockTracker/internal/model"
	"StockTracker/internal/portfolio"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	period, err := model.ParsePeriod(r.URL.Query().Get("period"), dashboard.DefaultOverviewPeriod)
	if err != nil {
		s.renderBadRequest(w, r, "overview", "Market Overview", err)
		return
	}
	interval, err := model.ParseInterval(r.URL.Query().Get("interval"), model.IntervalDay)
	if err != nil {
		s.renderBadRequest(w, r, "overview", "Market Overview", err)
		return
	}
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.Overview(ctx, period, interval)
	s.render(w, r, "overview", "Market Overview", http.StatusOK, &page.Status, page)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = "AAPL"
	}
	req, err := analysisRequest(r, symbol)
	if err != nil {
		s.renderBadRequest(w, r, "analysis", "Stock Analysis", err)
		return
	}
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.Analysis(ctx, req)
	s.render(w, r, "analysis", "Stock Analysis", http.StatusOK, &page.Status, page)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	period, err := model.ParsePeriod(r.URL.Query().Get("period"), dashboard.DefaultComparePeriod)
	if err != nil {
		s.renderBadRequest(w, r, "compare", "Stock Comparison", err)
		return
	}
	symbols := symbolsParam(r)
	if _, set := r.URL.Query()["symbols"]; !set {
		symbols = dashboard.DefaultCompareSymbols
	}
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.Comparison(ctx, symbols, period)
	s.render(w, r, "compare", "Stock Comparison", http.StatusOK, &page.Status, page)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	p := s.session(w, r)
	s.renderPortfolio(w, r, p, http.StatusOK, "")
}

func (s *Server) renderPortfolio(w http.ResponseWriter, r *http.Request, p *portfolio.Portfolio, code int, formErr string) {
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.Portfolio(ctx, p)
	s.renderView(w, code, "portfolio", view{
		Title:     "Portfolio",
		Active:    "portfolio",
		Warnings:  s.warnings,
		Status:    &page.Status,
		Page:      page,
		Query:     r.URL.Query(),
		FormError: formErr,
	})
}

func (s *Server) handleAddHolding(w http.ResponseWriter, r *http.Request) {
	p := s.session(w, r)
	if err := r.ParseForm(); err != nil {
		s.renderPortfolio(w, r, p, http.StatusBadRequest, "Could not read the form.")
		return
	}
	ticker, qty, cost, err := portfolio.ParseEntry(r.PostFormValue("ticker"), r.PostFormValue("quantity"), r.PostFormValue("cost_basis"))
	if err == nil {
		_, err = p.Add(ticker, qty, cost)
	}
	if err != nil {
		s.renderPortfolio(w, r, p, http.StatusBadRequest, err.Error())
		return
	}
	http.Redirect(w, r, "/portfolio", http.StatusSeeOther)
}

func (s *Server) handleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	p := s.session(w, r)
	if err := p.Remove(r.PathValue("id")); err != nil && !errors.Is(err, portfolio.ErrNotFound) {
		log.Printf("[WARN] remove holding: %v", err)
	}
	http.Redirect(w, r, "/portfolio", http.StatusSeeOther)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := q.Get("symbol")
	if symbol == "" {
		symbol = "AAPL"
	}
	score := boolParam(r, "sentiment")
	if _, set := q["sentiment"]; !set {
		score = true
	}
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.News(ctx, symbol, intParam(r, "limit", 0), score)
	s.render(w, r, "news", "News & Sentiment", http.StatusOK, &page.Status, page)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.History(ctx, intParam(r, "days", 0), intParam(r, "limit", 0), r.URL.Query().Get("ticker"))
	s.render(w, r, "history", "Historical Performance", http.StatusOK, &page.Status, page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}
