package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"StockBoard/internal/cache"
	"StockBoard/internal/gateway"
	"StockBoard/internal/indicator"
	"StockBoard/internal/model"
	"StockBoard/internal/store"
	"StockBoard/internal/watchlist"
)

func respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func respondErr(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]interface{}{"success": false, "error": msg})
}

func respondOK(w http.ResponseWriter, payload interface{}) {
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "data": payload})
}

// statusForErr maps core errors to HTTP statuses.
func statusForErr(err error) int {
	switch {
	case errors.Is(err, cache.ErrEmptyTicker), errors.Is(err, watchlist.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrNoData), errors.Is(err, gateway.ErrSymbolNotFound),
		errors.Is(err, watchlist.ErrNotWatched):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	req := cache.Request{
		Ticker:   chi.URLParam(r, "ticker"),
		Period:   r.URL.Query().Get("period"),
		Interval: r.URL.Query().Get("interval"),
		UseCache: r.URL.Query().Get("cache") != "false",
	}
	if req.Period == "" {
		req.Period = "1mo"
	}

	bars, err := s.coordinator.GetSeries(r.Context(), req)
	if err != nil {
		respondErr(w, statusForErr(err), err.Error())
		return
	}

	respondOK(w, map[string]interface{}{
		"ticker":   bars[0].Ticker,
		"period":   bars[0].Period,
		"interval": bars[0].Interval,
		"bars":     bars,
		"metrics":  cache.Metrics(bars),
	})
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	req := cache.Request{
		Ticker:   chi.URLParam(r, "ticker"),
		Period:   r.URL.Query().Get("period"),
		Interval: r.URL.Query().Get("interval"),
		UseCache: r.URL.Query().Get("cache") != "false",
	}
	if req.Period == "" {
		req.Period = "1mo"
	}

	var kinds []indicator.Kind
	if raw := r.URL.Query().Get("indicators"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			k, ok := indicator.ParseKind(name)
			if !ok {
				respondErr(w, http.StatusBadRequest, "unknown indicator: "+name)
				return
			}
			kinds = append(kinds, k)
		}
	}

	bars, err := s.coordinator.GetSeries(r.Context(), req)
	if err != nil {
		respondErr(w, statusForErr(err), err.Error())
		return
	}

	cols := indicator.Compute(bars, kinds)
	records := indicator.Records(bars[0].Ticker, bars, cols)
	if err := s.store.UpsertIndicators(records); err != nil {
		// The computed values are still served from memory.
		log.Printf("[WARN] caching indicators for %s failed: %v", bars[0].Ticker, err)
	}

	respondOK(w, map[string]interface{}{
		"ticker":  bars[0].Ticker,
		"records": records,
		"summary": indicator.Summarize(bars, cols),
		"signals": indicator.Signals(bars, cols),
	})
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	tickers := s.defaultTickers
	if raw := r.URL.Query().Get("tickers"); raw != "" {
		tickers = strings.Split(raw, ",")
	}
	respondOK(w, s.coordinator.Quotes(r.Context(), tickers))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(w, map[string]interface{}{
		"stock_data_records": stats.BarRows,
		"indicators_records": stats.IndicatorRows,
		"unique_tickers":     len(stats.Tickers),
		"tickers":            stats.Tickers,
		"database_size_mb":   float64(stats.SizeBytes) / (1024 * 1024),
	})
}

type addWatchRequest struct {
	Ticker      string   `json:"ticker" validate:"required,min=1,max=10"`
	Notes       string   `json:"notes" validate:"max=500"`
	TargetPrice *float64 `json:"target_price" validate:"omitempty,gt=0"`
	StopLoss    *float64 `json:"stop_loss" validate:"omitempty,gt=0"`
	Priority    int      `json:"priority" validate:"omitempty,min=1,max=5"`
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var req addWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Priority == 0 {
		req.Priority = 3
	}

	entry, err := s.watchlist.Add(r.Context(), req.Ticker, req.Notes, req.TargetPrice, req.StopLoss, req.Priority)
	if err != nil {
		respondErr(w, statusForErr(err), err.Error())
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{"success": true, "data": entry})
}

func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	entries, err := s.watchlist.List(activeOnly)
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []model.WatchEntry{}
	}
	respondOK(w, entries)
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.watchlist.Remove(chi.URLParam(r, "ticker")); err != nil {
		respondErr(w, statusForErr(err), err.Error())
		return
	}
	respondOK(w, nil)
}

type updateWatchRequest struct {
	Notes       *string  `json:"notes" validate:"omitempty,max=500"`
	TargetPrice *float64 `json:"target_price" validate:"omitempty,gt=0"`
	StopLoss    *float64 `json:"stop_loss" validate:"omitempty,gt=0"`
	Priority    *int     `json:"priority" validate:"omitempty,min=1,max=5"`
	IsActive    *bool    `json:"is_active"`
}

func (s *Server) handleWatchlistUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := model.WatchUpdate{
		Notes:       req.Notes,
		TargetPrice: req.TargetPrice,
		StopLoss:    req.StopLoss,
		Priority:    req.Priority,
		IsActive:    req.IsActive,
	}
	if upd.Empty() {
		respondErr(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if err := s.watchlist.Update(chi.URLParam(r, "ticker"), upd); err != nil {
		respondErr(w, statusForErr(err), err.Error())
		return
	}
	respondOK(w, nil)
}

func (s *Server) handleWatchlistSummary(w http.ResponseWriter, _ *http.Request) {
	sum, err := s.watchlist.GetSummary()
	if err != nil {
		respondErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(w, map[string]interface{}{
		"total_tickers":         sum.Total,
		"sectors":               sum.Sectors,
		"priority_distribution": sum.Priorities,
		"tickers":               sum.Entries,
	})
}
