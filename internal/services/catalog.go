package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/arkhambot/arkhambot/internal/models"
)

// CatalogFetcher pulls the full card catalog from its upstream source.
type CatalogFetcher interface {
	FetchCards(ctx context.Context) ([]*models.Card, error)
}

// CatalogSnapshot is one internally consistent view of the catalog: the
// record list plus every derived index, built together and published as a
// single value. A resolution pass holds one snapshot throughout and never
// observes a half-rebuilt state.
type CatalogSnapshot struct {
	Cards     []*models.Card
	NameIndex map[string][]*models.Card // normalized name -> printings, catalog order
	NameKeys  []string                  // normalized names in first-occurrence order; fuzzy candidate space
	CodeIndex map[string]*models.Card

	// Generation increments on every successful load. Cache entries keyed
	// by it die with their snapshot.
	Generation uint64
}

// CatalogService owns the card catalog. It starts empty and is primed or
// refreshed through Load; a failed load keeps the previous snapshot serving.
type CatalogService struct {
	fetcher CatalogFetcher

	mu         sync.RWMutex
	snapshot   *CatalogSnapshot
	lastLoaded time.Time
}

func NewCatalogService(fetcher CatalogFetcher) *CatalogService {
	return &CatalogService{
		fetcher: fetcher,
		snapshot: &CatalogSnapshot{
			NameIndex: make(map[string][]*models.Card),
			CodeIndex: make(map[string]*models.Card),
		},
	}
}

// Normalize reduces a display name to its matching key: lower-cased with
// everything but ASCII letters and digits stripped, so "Lucky!" and "lucky"
// collide. Applying it twice changes nothing.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Load fetches the catalog and publishes a fresh snapshot. The rebuild
// happens entirely off to the side; the swap is one assignment under the
// write lock, so concurrent resolvers see either the old snapshot or the new
// one, never a mix. On failure the previous snapshot is retained untouched.
func (s *CatalogService) Load(ctx context.Context) error {
	cards, err := s.fetcher.FetchCards(ctx)
	if err != nil {
		return fmt.Errorf("catalog load: %w", err)
	}

	next := buildSnapshot(cards)

	s.mu.Lock()
	next.Generation = s.snapshot.Generation + 1
	s.snapshot = next
	s.lastLoaded = time.Now()
	s.mu.Unlock()

	log.Printf("Catalog: loaded %d cards, %d distinct names", len(next.Cards), len(next.NameKeys))
	return nil
}

func buildSnapshot(cards []*models.Card) *CatalogSnapshot {
	snap := &CatalogSnapshot{
		Cards:     cards,
		NameIndex: make(map[string][]*models.Card, len(cards)),
		CodeIndex: make(map[string]*models.Card, len(cards)),
	}
	for _, c := range cards {
		key := Normalize(c.Name)
		if key != "" {
			if _, ok := snap.NameIndex[key]; !ok {
				snap.NameKeys = append(snap.NameKeys, key)
			}
			snap.NameIndex[key] = append(snap.NameIndex[key], c)
		}
		if c.Code != "" {
			snap.CodeIndex[c.Code] = c
		}
	}
	return snap
}

// Snapshot returns the current consistent view. Callers keep the returned
// pointer for the whole pass; it stays valid and immutable after a reload
// replaces it.
func (s *CatalogService) Snapshot() *CatalogSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *CatalogService) CardCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot.Cards)
}

func (s *CatalogService) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Generation
}

// LastLoaded reports when the current snapshot was published; zero if no
// load has succeeded yet.
func (s *CatalogService) LastLoaded() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLoaded
}
