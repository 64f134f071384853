package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/arkhambot/arkhambot/internal/metrics"
)

const defaultRefreshInterval = 24 * time.Hour

// CatalogWorker keeps the catalog fresh: one refresh on startup when the
// store is still empty, then periodic reloads. A failed refresh is logged
// and counted; the previous snapshot keeps serving until one succeeds.
type CatalogWorker struct {
	catalog         *CatalogService
	refreshInterval time.Duration

	mu            sync.RWMutex
	running       bool
	lastAttempt   time.Time
	lastSuccess   time.Time
	lastError     string
	failureStreak int
}

type CatalogStatus struct {
	Running         bool      `json:"running"`
	CardCount       int       `json:"card_count"`
	Generation      uint64    `json:"generation"`
	LastAttempt     time.Time `json:"last_attempt"`
	LastSuccess     time.Time `json:"last_success"`
	NextRefresh     time.Time `json:"next_refresh"`
	LastError       string    `json:"last_error,omitempty"`
	FailureStreak   int       `json:"failure_streak"`
	RefreshInterval string    `json:"refresh_interval"`
}

func NewCatalogWorker(catalog *CatalogService, refreshInterval time.Duration) *CatalogWorker {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	return &CatalogWorker{
		catalog:         catalog,
		refreshInterval: refreshInterval,
	}
}

// Start runs the refresh loop until ctx is cancelled.
func (w *CatalogWorker) Start(ctx context.Context) {
	log.Printf("Catalog worker started: refreshing every %v", w.refreshInterval)

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	// Prime the catalog on startup unless main already loaded it.
	if w.catalog.CardCount() == 0 {
		if err := w.RefreshNow(ctx); err != nil {
			log.Printf("Catalog worker: initial load failed: %v", err)
		}
	}

	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Catalog worker stopping...")
			return
		case <-ticker.C:
			if err := w.RefreshNow(ctx); err != nil {
				log.Printf("Catalog worker: refresh failed: %v", err)
			}
		}
	}
}

// RefreshNow performs one reload immediately. The manual reload endpoint and
// the ticker share this path.
func (w *CatalogWorker) RefreshNow(ctx context.Context) error {
	start := time.Now()

	w.mu.Lock()
	w.lastAttempt = start
	w.mu.Unlock()

	err := w.catalog.Load(ctx)
	metrics.CatalogRefreshDuration.Observe(time.Since(start).Seconds())

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.lastError = err.Error()
		w.failureStreak++
		metrics.CatalogReloadsTotal.WithLabelValues("failure").Inc()
		return err
	}

	w.lastSuccess = time.Now()
	w.lastError = ""
	w.failureStreak = 0
	metrics.CatalogReloadsTotal.WithLabelValues("success").Inc()
	metrics.CatalogCards.Set(float64(w.catalog.CardCount()))
	metrics.CatalogLastSuccess.Set(float64(w.lastSuccess.Unix()))
	log.Printf("Catalog worker: refreshed in %v, %d cards", time.Since(start).Round(time.Millisecond), w.catalog.CardCount())
	return nil
}

func (w *CatalogWorker) Status() CatalogStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return CatalogStatus{
		Running:         w.running,
		CardCount:       w.catalog.CardCount(),
		Generation:      w.catalog.Generation(),
		LastAttempt:     w.lastAttempt,
		LastSuccess:     w.lastSuccess,
		NextRefresh:     w.lastAttempt.Add(w.refreshInterval),
		LastError:       w.lastError,
		FailureStreak:   w.failureStreak,
		RefreshInterval: w.refreshInterval.String(),
	}
}
