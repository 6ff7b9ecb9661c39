package catalog

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/maypok86/otter/v2"
)

// DefaultTTL is how long a fetched catalog payload stays fresh.
const DefaultTTL = 24 * time.Hour

type cachedPayload struct {
	ExpiresAt time.Time
	Data      []byte
}

// Fetcher retrieves the optional remote catalog extension: a static JSON
// array of {name, label} records. Fetch failures degrade silently to the
// embedded seed; the engine never depends on the remote payload.
type Fetcher struct {
	url        string
	dir        string // disk snapshot directory, "" disables snapshots
	ttl        time.Duration
	httpClient *http.Client
	cache      *otter.Cache[string, cachedPayload]
	logger     *slog.Logger
}

// NewFetcher builds a Fetcher for the given payload URL. dir may be empty
// to keep the cache memory-only.
func NewFetcher(url, dir string, logger *slog.Logger) *Fetcher {
	cache := otter.Must(&otter.Options[string, cachedPayload]{
		MaximumSize:      16,
		ExpiryCalculator: otter.ExpiryWriting[string, cachedPayload](DefaultTTL),
	})
	f := &Fetcher{
		url:        url,
		dir:        dir,
		ttl:        DefaultTTL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
		logger:     logger,
	}
	if dir != "" {
		if err := f.loadSnapshot(); err != nil {
			logger.Debug("no usable catalog snapshot", "error", err)
		}
	}
	return f
}

// Extend fetches the remote payload and merges it into the catalog. It is
// best-effort: on failure the catalog is left untouched and the error is
// logged at warn level only.
func (f *Fetcher) Extend(ctx context.Context, c *Catalog) {
	entries, err := f.fetch(ctx)
	if err != nil {
		f.logger.Warn("remote catalog fetch failed, using seed only", "url", f.url, "error", err)
		return
	}
	c.Merge(entries)
	f.logger.Info("remote catalog merged", "entries", len(entries), "total", c.Len())
}

func (f *Fetcher) fetch(ctx context.Context) ([]Entry, error) {
	if payload, ok := f.cache.GetIfPresent(f.url); ok && time.Now().Before(payload.ExpiresAt) {
		return decodeEntries(payload.Data)
	}

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
			if err != nil {
				return err
			}
			resp, err := f.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := resp.Body.Close(); closeErr != nil {
					f.logger.Debug("failed to close response body", "error", closeErr)
				}
			}()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("HTTP %d fetching catalog", resp.StatusCode)
			}
			body, err = io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			return err
		},
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Debug("retrying catalog fetch", "attempt", n+1, "url", f.url, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return nil, err
	}

	f.cache.Set(f.url, cachedPayload{Data: body, ExpiresAt: time.Now().Add(f.ttl)})
	if f.dir != "" {
		if err := f.saveSnapshot(); err != nil {
			f.logger.Debug("failed to snapshot catalog cache", "error", err)
		}
	}
	return entries, nil
}

func decodeEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding catalog payload: %w", err)
	}
	return entries, nil
}

func (f *Fetcher) snapshotPath() string {
	return filepath.Join(f.dir, "catalog-cache.gob")
}

func (f *Fetcher) loadSnapshot() error {
	file, err := os.Open(f.snapshotPath())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			f.logger.Debug("failed to close snapshot file", "error", closeErr)
		}
	}()

	var entries map[string]cachedPayload
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	now := time.Now()
	for key, payload := range entries {
		if now.Before(payload.ExpiresAt) {
			f.cache.Set(key, payload)
		}
	}
	return nil
}

func (f *Fetcher) saveSnapshot() error {
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tempPath := f.snapshotPath() + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}

	entries := make(map[string]cachedPayload)
	now := time.Now()
	f.cache.All()(func(key string, payload cachedPayload) bool {
		if now.Before(payload.ExpiresAt) {
			entries[key] = payload
		}
		return true
	})

	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing snapshot: %w", err)
	}
	return os.Rename(tempPath, f.snapshotPath())
}
