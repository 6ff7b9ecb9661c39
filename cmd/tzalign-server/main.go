// Package main implements the tzalign web server. The query parameters of
// the grid endpoint are the shareable URL encoding itself: a request with
// tz0=...&tz1=...&format=24h renders that exact configuration, and the
// response carries the canonical re-encoded share query.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/tzalign/pkg/appstate"
	"github.com/codeGROOVE-dev/tzalign/pkg/catalog"
	"github.com/codeGROOVE-dev/tzalign/pkg/config"
	"github.com/codeGROOVE-dev/tzalign/pkg/hourgrid"
	"github.com/codeGROOVE-dev/tzalign/pkg/timetravel"
	"github.com/codeGROOVE-dev/tzalign/pkg/tzoffset"
)

var (
	port       = flag.String("port", "8080", "Port for web server")
	configPath = flag.String("config", "", "Config file path (or set TZALIGN_CONFIG)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Show version")
)

type rateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{requests: make(map[string][]time.Time)}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)

	var valid []time.Time
	for _, t := range rl.requests[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	// Rate limit: 60 requests per minute per IP
	if len(valid) >= 60 {
		rl.requests[ip] = valid
		return false
	}

	rl.requests[ip] = append(valid, now)
	return true
}

type server struct {
	cat     *catalog.Catalog
	cfg     config.Config
	limiter *rateLimiter
	logger  *slog.Logger
}

func main() {
	flag.Parse()

	if *version {
		fmt.Println("tzalign Server v1.2.0")
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *configPath == "" {
		*configPath = os.Getenv("TZALIGN_CONFIG")
	}
	if *configPath == "" {
		*configPath = config.DefaultPath()
	}
	cfg := config.Load(*configPath, logger)

	logger.Info("Server configuration", "port", *port, "verbose", *verbose, "catalog_url", cfg.CatalogURL)

	s := &server{
		cat:     catalog.New(logger),
		cfg:     cfg,
		limiter: newRateLimiter(),
		logger:  logger,
	}

	// Best-effort catalog extension; the seed catalog serves until (and
	// unless) the fetch lands.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go catalog.NewFetcher(cfg.CatalogURL, cfg.StateDir, logger).Extend(ctx, s.cat)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/grid", s.rateLimited(s.handleGrid))
	mux.HandleFunc("GET /api/timezones", s.rateLimited(s.handleTimezones))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           mux,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", *port)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}

func (s *server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !s.limiter.allow(ip) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// zoneGrid is one zone row of the grid response.
type zoneGrid struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	OffsetLabel string          `json:"offsetLabel"`
	LocalTime   string          `json:"localTime"`
	Cells       []hourgrid.Cell `json:"cells"`
}

type gridResponse struct {
	Now       string     `json:"now"`
	Share     string     `json:"share"`
	Travel    float64    `json:"travel"`
	Use24Hour bool       `json:"use24Hour"`
	Zones     []zoneGrid `json:"zones"`
}

// handleGrid renders the 48-cell grids for the configuration encoded in
// the request's query parameters. A request without tz parameters gets
// the built-in defaults; persistence belongs to the client, so nothing is
// stored server-side.
func (s *server) handleGrid(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	state, ok := appstate.DecodeQuery(query, s.logger)
	if !ok {
		state = appstate.DefaultState()
	}

	travel := timetravel.New(travelOpts(s.cfg)...)
	if raw := query.Get("travel"); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "invalid travel parameter", http.StatusBadRequest)
			return
		}
		travel.Seek(hours)
	}

	now := time.Now()
	homeID := state.Timezones[0].ID
	home, err := time.LoadLocation(homeID)
	if err != nil {
		http.Error(w, "home zone failed to load", http.StatusInternalServerError)
		return
	}
	anchor := hourgrid.AnchorHour(home, now, travel.Hours())

	resp := gridResponse{
		Now:       now.UTC().Format(time.RFC3339),
		Share:     appstate.EncodeQuery(state).Encode(),
		Travel:    travel.Hours(),
		Use24Hour: state.Use24Hour,
	}
	for _, entry := range state.Timezones {
		loc, err := time.LoadLocation(entry.ID)
		if err != nil {
			s.logger.Warn("skipping zone that failed to load", "id", entry.ID, "error", err)
			continue
		}
		diff, err := tzoffset.FromHome(entry.ID, homeID, now)
		if err != nil {
			s.logger.Warn("skipping zone with unknown offset", "id", entry.ID, "error", err)
			continue
		}
		resp.Zones = append(resp.Zones, zoneGrid{
			ID:          entry.ID,
			Label:       entry.DisplayName(),
			OffsetLabel: tzoffset.FormatFromHome(diff),
			LocalTime:   now.In(loc).Format(time.RFC3339),
			Cells:       hourgrid.Generate(loc, home, anchor, now, state.Use24Hour),
		})
	}

	writeJSON(w, resp, s.logger)
}

// handleTimezones serves the catalog for the search/add path, optionally
// filtered by a q parameter.
func (s *server) handleTimezones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var entries []catalog.Entry
	if q == "" {
		entries = s.cat.All()
	} else {
		entries = s.cat.Search(q)
	}
	writeJSON(w, entries, s.logger)
}

func travelOpts(cfg config.Config) []timetravel.Option {
	if cfg.ClampHours > 0 {
		return []timetravel.Option{timetravel.WithClamp(cfg.ClampHours)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write response", "error", err)
	}
}
