// Package api exposes the REST surface consumed by the presentation layer.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fno-papertrade/internal/alerts"
	"fno-papertrade/internal/feed"
	"fno-papertrade/internal/markethours"
	"fno-papertrade/internal/metrics"
	"fno-papertrade/internal/model"
	"fno-papertrade/internal/orders"
	"fno-papertrade/internal/portfolio"
	"fno-papertrade/internal/sortutil"
)

// Deps wires the core components into the REST handlers.
type Deps struct {
	Reader     *feed.Reader
	Book       *feed.Book
	Positions  *portfolio.Book
	Translator *orders.Translator
	Alerts     *alerts.Store
	Metrics    *metrics.Metrics
}

// NewRouter sets up HTTP routes for the API server.
func NewRouter(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/api/v1/watchlist", d.handleWatchlist)
	mux.HandleFunc("/api/v1/positions", d.handlePositions)
	mux.HandleFunc("/api/v1/pnl", d.handlePnL)
	mux.HandleFunc("/api/v1/orders", d.handleOrders)
	mux.HandleFunc("/api/v1/alerts", d.handleAlerts)
	mux.HandleFunc("/api/v1/alerts/", d.handleAlertToggle)

	mux.HandleFunc("/api/v1/brokers", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		writeJSON(w, http.StatusOK, model.Brokers())
	})

	mux.HandleFunc("/api/v1/session", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		writeJSON(w, http.StatusOK, markethours.StatusAt(time.Now()))
	})

	return mux
}

// handleWatchlist serves the live watchlist through the latency-bearing feed
// reader, so callers experience real fetch semantics.
func (d Deps) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if preflight(w, r) {
		return
	}

	start := time.Now()
	snap, err := d.Reader.Fetch(r.Context())
	if err != nil {
		// Client went away mid-fetch; nothing to serve.
		writeError(w, http.StatusRequestTimeout, "fetch cancelled")
		return
	}
	if d.Metrics != nil {
		d.Metrics.FetchLatency.Observe(time.Since(start).Seconds())
	}

	if key := r.URL.Query().Get("sort"); key != "" {
		sorted, err := sortutil.Instruments(snap, key, direction(r))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		snap = sorted
	}
	writeJSON(w, http.StatusOK, snap)
}

func (d Deps) handlePositions(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if preflight(w, r) {
		return
	}

	snap := d.Positions.Positions()
	if key := r.URL.Query().Get("sort"); key != "" {
		sorted, err := sortutil.Positions(snap, key, direction(r))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		snap = sorted
	}
	writeJSON(w, http.StatusOK, snap)
}

func (d Deps) handlePnL(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if preflight(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_pnl": d.Positions.TotalPnL(),
		"positions": d.Positions.Len(),
	})
}

func (d Deps) handleOrders(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if preflight(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var order model.OrderDetails
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, http.StatusBadRequest, "malformed order: "+err.Error())
		return
	}

	inst, ok := d.Book.Lookup(order.Symbol)
	if !ok {
		if d.Metrics != nil {
			d.Metrics.OrdersRejected.WithLabelValues("unknown_symbol").Inc()
		}
		writeError(w, http.StatusNotFound, orders.ErrUnknownSymbol.Error()+": "+order.Symbol)
		return
	}

	pos, err := d.Translator.Execute(order, inst)
	if err != nil {
		if orders.IsValidation(err) {
			if d.Metrics != nil {
				d.Metrics.OrdersRejected.WithLabelValues("validation").Inc()
			}
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if d.Metrics != nil {
		d.Metrics.OrdersPlaced.WithLabelValues(string(order.TransactionType)).Inc()
		d.Metrics.OpenPositions.Set(float64(d.Positions.Len()))
	}
	writeJSON(w, http.StatusCreated, pos)
}

func (d Deps) handleAlerts(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if preflight(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, d.Alerts.List())
	case http.MethodPost:
		var a model.Alert
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			writeError(w, http.StatusBadRequest, "malformed alert: "+err.Error())
			return
		}
		if _, ok := d.Book.Lookup(a.Symbol); !ok {
			writeError(w, http.StatusNotFound, orders.ErrUnknownSymbol.Error()+": "+a.Symbol)
			return
		}
		writeJSON(w, http.StatusCreated, d.Alerts.Add(a))
	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
	}
}

// handleAlertToggle serves POST /api/v1/alerts/{id}/toggle.
func (d Deps) handleAlertToggle(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if preflight(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/alerts/")
	id, action, found := strings.Cut(rest, "/")
	if !found || action != "toggle" || id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	a, ok := d.Alerts.Toggle(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown alert id: "+id)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func direction(r *http.Request) sortutil.Direction {
	if r.URL.Query().Get("dir") == string(sortutil.Descending) {
		return sortutil.Descending
	}
	return sortutil.Ascending
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// preflight answers OPTIONS requests; returns true if the request is done.
func preflight(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
