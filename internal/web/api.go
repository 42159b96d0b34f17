package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"StockTracker/internal/dashboard"
	"StockTracker/internal/model"
	"StockTracker/internal/portfolio"
)

func (s *Server) handleAPIOverview(w http.ResponseWriter, r *http.Request) {
	period, err := model.ParsePeriod(r.URL.Query().Get("period"), dashboard.DefaultOverviewPeriod)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	interval, err := model.ParseInterval(r.URL.Query().Get("interval"), model.IntervalDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.Overview(ctx, period, interval)
	writeJSON(w, statusCode(page.State), page)
}

func (s *Server) handleAPISecurity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := model.ParsePeriod(q.Get("period"), dashboard.DefaultAnalysisPeriod)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	interval, err := model.ParseInterval(q.Get("interval"), model.IntervalDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.Security(ctx, r.PathValue("symbol"), period, interval)
	writeJSON(w, statusCode(page.State), page)
}

func (s *Server) handleAPIIndicators(w http.ResponseWriter, r *http.Request) {
	req, err := analysisRequest(r, r.PathValue("symbol"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.Analysis(ctx, req)
	writeJSON(w, statusCode(page.State), page)
}

func (s *Server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	period, err := model.ParsePeriod(r.URL.Query().Get("period"), dashboard.DefaultComparePeriod)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.Comparison(ctx, symbolsParam(r), period)
	writeJSON(w, statusCode(page.State), page)
}

func (s *Server) handleAPIPortfolio(w http.ResponseWriter, r *http.Request) {
	p := s.session(w, r)
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.Portfolio(ctx, p)
	writeJSON(w, statusCode(page.State), page)
}

type holdingRequest struct {
	Ticker    string          `json:"ticker"`
	Quantity  decimal.Decimal `json:"quantity"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

func (s *Server) handleAPIAddHolding(w http.ResponseWriter, r *http.Request) {
	p := s.session(w, r)
	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	entry, err := p.Add(req.Ticker, req.Quantity, req.CostBasis)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleAPIDeleteHolding(w http.ResponseWriter, r *http.Request) {
	p := s.session(w, r)
	if err := p.Remove(r.PathValue("id")); err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPINews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.News(ctx, r.PathValue("symbol"), intParam(r, "limit", 0), boolParam(r, "sentiment"))
	writeJSON(w, statusCode(page.State), page)
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.context(r)
	defer cancel()
	page := s.dash.History(ctx, intParam(r, "days", 0), intParam(r, "limit", 0), r.URL.Query().Get("ticker"))
	writeJSON(w, statusCode(page.State), page)
}
