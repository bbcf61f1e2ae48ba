// Package metrics exposes Prometheus instrumentation plus the /healthz
// status endpoint for the paper-trading server.
package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the simulation engine.
type Metrics struct {
	FeedTicksTotal  prometheus.Counter
	MTMTicksTotal   prometheus.Counter
	OrdersPlaced    *prometheus.CounterVec // labels: side
	OrdersRejected  *prometheus.CounterVec // labels: reason
	AlertsTriggered prometheus.Counter
	WSClients       prometheus.Gauge
	WSDropsTotal    *prometheus.CounterVec // labels: channel
	FetchLatency    prometheus.Histogram
	OpenPositions   prometheus.Gauge
	TotalPnL        prometheus.Gauge
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedTicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "papertrade_feed_ticks_total",
			Help: "Total price feed simulator ticks",
		}),
		MTMTicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "papertrade_mtm_ticks_total",
			Help: "Total mark-to-market revaluation batches",
		}),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "papertrade_orders_placed_total",
			Help: "Orders executed into the position book (by side)",
		}, []string{"side"}),
		OrdersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "papertrade_orders_rejected_total",
			Help: "Orders rejected before execution (by reason)",
		}, []string{"reason"}),
		AlertsTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "papertrade_alerts_triggered_total",
			Help: "Price alerts fired by the evaluator",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_ws_clients",
			Help: "Currently connected WebSocket clients",
		}),
		WSDropsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "papertrade_ws_drops_total",
			Help: "Envelopes dropped for slow WebSocket clients (by channel)",
		}, []string{"channel"}),
		FetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "papertrade_fetch_latency_seconds",
			Help:    "Simulated feed reader fetch latency",
			Buckets: []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.5},
		}),
		OpenPositions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_open_positions",
			Help: "Open positions in the position book",
		}),
		TotalPnL: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "papertrade_total_pnl",
			Help: "Total unrealized P&L across all positions (rupees)",
		}),
	}

	prometheus.MustRegister(
		m.FeedTicksTotal,
		m.MTMTicksTotal,
		m.OrdersPlaced,
		m.OrdersRejected,
		m.AlertsTriggered,
		m.WSClients,
		m.WSDropsTotal,
		m.FetchLatency,
		m.OpenPositions,
		m.TotalPnL,
	)
	return m
}

// HealthStatus is the /healthz payload.
type HealthStatus struct {
	mu sync.RWMutex

	FeedRunning   bool      `json:"feed_running"`
	MTMRunning    bool      `json:"mtm_running"`
	LastFeedTick  time.Time `json:"last_feed_tick"`
	MarketOpen    bool      `json:"market_open"`
	Instruments   int       `json:"instruments"`
	OpenPositions int       `json:"open_positions"`
	StartedAt     time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

func (h *HealthStatus) SetFeedRunning(v bool) {
	h.mu.Lock()
	h.FeedRunning = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetMTMRunning(v bool) {
	h.mu.Lock()
	h.MTMRunning = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastFeedTick(t time.Time) {
	h.mu.Lock()
	h.LastFeedTick = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetMarketOpen(v bool) {
	h.mu.Lock()
	h.MarketOpen = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetInstruments(n int) {
	h.mu.Lock()
	h.Instruments = n
	h.mu.Unlock()
}

func (h *HealthStatus) SetOpenPositions(n int) {
	h.mu.Lock()
	h.OpenPositions = n
	h.mu.Unlock()
}

// ServeHTTP writes the status as JSON.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h)
}

// Server serves /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
