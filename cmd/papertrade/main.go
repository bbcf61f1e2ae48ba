// cmd/papertrade — paper-trading simulation server.
//
// Owns the two simulation tasks (price feed and mark-to-market), the paper
// order path, alert evaluation, and the REST + WebSocket surface the browser
// front end consumes. All state is in-memory and torn down at process exit.
//
// Config (env vars, optionally via .env):
//
//	LISTEN_ADDR           — API/WS listen address       (default ":8080")
//	METRICS_ADDR          — /metrics and /healthz       (default ":9090")
//	FEED_INTERVAL_MS      — price feed tick period      (default 1500)
//	MTM_INTERVAL_MS       — mark-to-market tick period  (default 1500)
//	FETCH_LATENCY_MIN_MS / FETCH_LATENCY_MAX_MS — simulated reader latency
//	LOG_LEVEL, LOG_FILE   — logging
//	TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID, ALERT_WEBHOOK_URL — alert delivery
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fno-papertrade/config"
	"fno-papertrade/internal/alerts"
	"fno-papertrade/internal/api"
	"fno-papertrade/internal/feed"
	"fno-papertrade/internal/gateway"
	"fno-papertrade/internal/logger"
	"fno-papertrade/internal/markethours"
	"fno-papertrade/internal/metrics"
	"fno-papertrade/internal/model"
	"fno-papertrade/internal/notification"
	"fno-papertrade/internal/orders"
	"fno-papertrade/internal/portfolio"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	cfg := config.Load()
	logger.Init("papertrade", logger.ParseLevel(cfg.LogLevel), cfg.LogFile)
	log.Println("[papertrade] starting...")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---- Metrics & health ----
	prom := metrics.NewMetrics()
	health := metrics.NewHealthStatus()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr, health)
	metricsSrv.Start()

	// ---- Instrument book & price feed ----
	book, err := feed.NewBook(feed.DefaultInstruments())
	if err != nil {
		log.Fatalf("[papertrade] seed watchlist invalid: %v", err)
	}
	health.SetInstruments(book.Len())

	bus := feed.NewFanOut(16)
	bus.OnDrop = func(int) { prom.WSDropsTotal.WithLabelValues("feed_bus").Inc() }

	sim := feed.NewSimulator(book, bus, feed.SimulatorConfig{Interval: cfg.FeedInterval})
	sim.OnTick = func(int) {
		prom.FeedTicksTotal.Inc()
		health.SetLastFeedTick(time.Now())
	}

	reader := feed.NewReader(book, feed.ReaderConfig{
		MinLatency: cfg.FetchLatencyMin,
		MaxLatency: cfg.FetchLatencyMax,
	})

	// ---- Position book & mark-to-market ----
	positions := portfolio.NewBook()
	mtm := portfolio.NewEngine(positions, portfolio.EngineConfig{Interval: cfg.MTMInterval})
	translator := orders.NewTranslator(positions)

	// ---- Alerts ----
	notifier := buildNotifier(cfg)
	alertStore := alerts.NewStore(feed.DefaultAlerts())
	evaluator := alerts.NewEvaluator(alertStore, notifier)
	evaluator.OnTrigger = func(model.Alert) { prom.AlertsTriggered.Inc() }

	// ---- WebSocket hub ----
	hub := gateway.NewHub()
	hub.OnClientCount = func(n int) { prom.WSClients.Set(float64(n)) }
	hub.OnDrop = func(channel string) { prom.WSDropsTotal.WithLabelValues(channel).Inc() }

	mtm.OnBatch = func(snap []model.Position) {
		prom.MTMTicksTotal.Inc()
		prom.OpenPositions.Set(float64(len(snap)))
		total, _ := positions.TotalPnL().Float64()
		prom.TotalPnL.Set(total)
		health.SetOpenPositions(len(snap))
		hub.Broadcast(gateway.ChannelPositions, snap)
	}

	// ---- Background tasks ----
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		health.SetFeedRunning(true)
		sim.Run(ctx)
		health.SetFeedRunning(false)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		health.SetMTMRunning(true)
		mtm.Run(ctx)
		health.SetMTMRunning(false)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		evaluator.Run(ctx, bus.Subscribe())
	}()

	// Feed → WS bridge.
	wg.Add(1)
	go func() {
		defer wg.Done()
		snapshots := bus.Subscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				hub.Broadcast(gateway.ChannelWatchlist, snap)
			}
		}
	}()

	// Session clock for the health endpoint.
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		health.SetMarketOpen(markethours.IsMarketOpen(time.Now()))
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				health.SetMarketOpen(markethours.IsMarketOpen(t))
			}
		}
	}()

	// ---- HTTP surface ----
	mux := api.NewRouter(api.Deps{
		Reader:     reader,
		Book:       book,
		Positions:  positions,
		Translator: translator,
		Alerts:     alertStore,
		Metrics:    prom,
	})
	mux.HandleFunc("/ws", gateway.Handler(hub))

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		log.Printf("[papertrade] listening on %s (WebSocket: ws://localhost%s/ws)", cfg.ListenAddr, cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[papertrade] server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[papertrade] shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	metricsSrv.Stop(shutdownCtx)

	wg.Wait()
	bus.Close()
	log.Println("[papertrade] stopped")
}

// buildNotifier assembles the alert delivery chain from config. Falls back
// to log-only delivery when no external channel is configured.
func buildNotifier(cfg *config.Config) notification.Notifier {
	chain := notification.Multi{notification.NewLogNotifier()}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		chain = append(chain, notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
		log.Println("[papertrade] telegram alert delivery enabled")
	}
	if cfg.AlertWebhookURL != "" {
		chain = append(chain, notification.NewWebhookNotifier(cfg.AlertWebhookURL))
		log.Println("[papertrade] webhook alert delivery enabled")
	}
	return chain
}
