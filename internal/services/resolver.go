package services

import (
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/arkhambot/arkhambot/internal/metrics"
	"github.com/arkhambot/arkhambot/internal/models"
)

// FuzzyThreshold is the minimum token-set similarity score (0-100) at which
// the fuzzy stage accepts a catalog name key.
const FuzzyThreshold = 80

const resolverMemoSize = 512

// ScoreFunc rates the similarity of two normalized strings on a 0-100 scale.
type ScoreFunc func(a, b string) int

// ResolverService resolves raw search tokens to catalog records through an
// ordered strategy chain: exact normalized name, then case-insensitive
// substring, then fuzzy. The first stage that produces anything for a token
// wins; later stages are never consulted for it.
type ResolverService struct {
	catalog *CatalogService
	score   ScoreFunc
	memo    *lru.Cache[string, []string] // "generation:token" -> picked codes
}

func NewResolverService(catalog *CatalogService) *ResolverService {
	return NewResolverServiceWithScorer(catalog, func(a, b string) int {
		return fuzzy.TokenSetRatio(a, b)
	})
}

// NewResolverServiceWithScorer injects a custom similarity scorer. Tests use
// fixed-score stubs to pin the acceptance threshold exactly.
func NewResolverServiceWithScorer(catalog *CatalogService, score ScoreFunc) *ResolverService {
	memo, _ := lru.New[string, []string](resolverMemoSize)
	return &ResolverService{catalog: catalog, score: score, memo: memo}
}

// Resolve processes tokens strictly left to right against one catalog
// snapshot, accumulating a single ordered result deduplicated by card code.
// Tokens that match nothing contribute nothing; the caller decides whether
// an empty overall result is worth reporting.
func (r *ResolverService) Resolve(tokens []string) []*models.Card {
	start := time.Now()
	defer func() {
		metrics.ResolveDuration.Observe(time.Since(start).Seconds())
	}()

	snap := r.catalog.Snapshot()

	var matches []*models.Card
	seen := make(map[string]bool)

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		for _, pick := range r.resolveToken(snap, token) {
			if pick.Code != "" && !seen[pick.Code] {
				seen[pick.Code] = true
				matches = append(matches, pick)
			}
		}
	}
	return matches
}

// resolveToken runs the strategy chain for one token. Per-token picks are
// memoized by (generation, token): codes are cheap to store, rehydrate
// through the snapshot's code index, and entries from replaced snapshots
// simply stop being asked for. Cross-token dedup happens in Resolve, after
// the memo, so caching never changes results.
func (r *ResolverService) resolveToken(snap *CatalogSnapshot, token string) []*models.Card {
	key := fmt.Sprintf("%d:%s", snap.Generation, token)
	if codes, ok := r.memo.Get(key); ok {
		metrics.ResolveMemoHits.Inc()
		picks := make([]*models.Card, 0, len(codes))
		for _, code := range codes {
			if c, ok := snap.CodeIndex[code]; ok {
				picks = append(picks, c)
			}
		}
		return picks
	}

	picks := r.runStages(snap, token)

	codes := make([]string, len(picks))
	for i, c := range picks {
		codes[i] = c.Code
	}
	r.memo.Add(key, codes)
	return picks
}

func (r *ResolverService) runStages(snap *CatalogSnapshot, token string) []*models.Card {
	base, qual := ParseQuery(token)
	if base == "" {
		// A bare qualifier like "(2)" leaves nothing to search for. An
		// empty base would substring-match the entire catalog, so it
		// matches nothing instead.
		return nil
	}
	baseNorm := Normalize(base)

	if picks := r.exactStage(snap, base, baseNorm, qual); len(picks) > 0 {
		metrics.MatchesTotal.WithLabelValues("exact").Add(float64(len(picks)))
		return picks
	}
	if picks := r.substringStage(snap, base, qual); len(picks) > 0 {
		metrics.MatchesTotal.WithLabelValues("substring").Add(float64(len(picks)))
		return picks
	}
	if pick := r.fuzzyStage(snap, base, baseNorm, qual); pick != nil {
		metrics.MatchesTotal.WithLabelValues("fuzzy").Inc()
		return []*models.Card{pick}
	}
	return nil
}

// exactStage considers every printing whose normalized name equals the
// normalized base. Without a qualifier only the lowest-XP printing survives
// (ties go to the first in catalog order); with one, every passing printing
// does.
func (r *ResolverService) exactStage(snap *CatalogSnapshot, base, baseNorm string, qual *Qualifier) []*models.Card {
	candidates := snap.NameIndex[baseNorm]
	if len(candidates) == 0 {
		return nil
	}
	if qual == nil {
		return []*models.Card{minXP(candidates)}
	}
	var picks []*models.Card
	for _, c := range candidates {
		if qual.Match(c, base) {
			picks = append(picks, c)
		}
	}
	return picks
}

// substringStage scans the catalog for display names containing base, groups
// the hits by normalized name in first-encounter order, and keeps each
// group's lowest-XP printing.
func (r *ResolverService) substringStage(snap *CatalogSnapshot, base string, qual *Qualifier) []*models.Card {
	lowest := make(map[string]*models.Card)
	var order []string

	for _, c := range snap.Cards {
		if !strings.Contains(strings.ToLower(c.Name), base) {
			continue
		}
		if qual != nil && !qual.Match(c, base) {
			continue
		}
		key := Normalize(c.Name)
		cur, ok := lowest[key]
		if !ok {
			lowest[key] = c
			order = append(order, key)
		} else if c.XP < cur.XP {
			lowest[key] = c
		}
	}

	picks := make([]*models.Card, 0, len(order))
	for _, key := range order {
		picks = append(picks, lowest[key])
	}
	return picks
}

// fuzzyStage scores the normalized base against every catalog name key and
// takes the single best (ties go to the earliest key). At or above
// FuzzyThreshold, that name's printings are qualifier-filtered and the
// lowest-XP survivor is picked.
func (r *ResolverService) fuzzyStage(snap *CatalogSnapshot, base, baseNorm string, qual *Qualifier) *models.Card {
	if len(snap.NameKeys) == 0 {
		return nil
	}

	bestKey := ""
	bestScore := -1
	for _, key := range snap.NameKeys {
		if score := r.score(baseNorm, key); score > bestScore {
			bestKey, bestScore = key, score
		}
	}
	if bestScore < FuzzyThreshold {
		return nil
	}

	variants := snap.NameIndex[bestKey]
	if qual != nil {
		var passing []*models.Card
		for _, c := range variants {
			if qual.Match(c, base) {
				passing = append(passing, c)
			}
		}
		variants = passing
	}
	if len(variants) == 0 {
		return nil
	}
	return minXP(variants)
}

func minXP(cards []*models.Card) *models.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.XP < best.XP {
			best = c
		}
	}
	return best
}
