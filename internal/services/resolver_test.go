package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/arkhambot/arkhambot/internal/models"
)

// resolverCards is a small catalog exercising every resolution path: a name
// with three levels, a name that is a strict substring of others, and a pair
// of names sharing a common fragment.
func resolverCards() []*models.Card {
	return []*models.Card{
		{Code: "01060", Name: "Shrivelling", XP: 0},
		{Code: "02229", Name: "Shrivelling", XP: 3},
		{Code: "04268", Name: "Shrivelling", XP: 5},
		{Code: "01080", Name: "Lucky!", XP: 0},
		{Code: "02157", Name: "Lucky!", XP: 2},
		{Code: "01086", Name: "Knife", XP: 0},
		{Code: "04017", Name: "Survival Knife", XP: 0},
		{Code: "05189", Name: "Survival Knife", XP: 2},
		{Code: "05040", Name: "Sign Magick", XP: 0},
		{Code: "05323", Name: "Sign Magick", XP: 3},
		{Code: "01095", Name: "Seal of the Elder Sign", XP: 5},
	}
}

func newTestResolver(t *testing.T) *ResolverService {
	t.Helper()
	return NewResolverService(newTestCatalog(t, resolverCards()))
}

func codesOf(cards []*models.Card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.Code
	}
	return codes
}

func assertCodes(t *testing.T, got []*models.Card, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("resolved %v, want codes %v", codesOf(got), want)
	}
	for i, code := range want {
		if got[i].Code != code {
			t.Fatalf("resolved %v, want codes %v", codesOf(got), want)
		}
	}
}

func TestResolve_ExactPicksLowestLevel(t *testing.T) {
	r := newTestResolver(t)
	assertCodes(t, r.Resolve([]string{"shrivelling"}), "01060")
}

func TestResolve_ExactBeatsSubstring(t *testing.T) {
	r := newTestResolver(t)
	// "knife" names an exact card, so "Survival Knife" never enters.
	assertCodes(t, r.Resolve([]string{"knife"}), "01086")
}

func TestResolve_ExactIgnoresPunctuationAndCase(t *testing.T) {
	r := newTestResolver(t)
	assertCodes(t, r.Resolve([]string{"LUCKY"}), "01080")
	assertCodes(t, r.Resolve([]string{"lucky!"}), "01080")
}

func TestResolve_LevelQualifier(t *testing.T) {
	r := newTestResolver(t)

	assertCodes(t, r.Resolve([]string{"shrivelling (3)"}), "02229")
	assertCodes(t, r.Resolve([]string{"shrivelling (0)"}), "01060")

	// (u) keeps every upgraded printing, catalog order.
	assertCodes(t, r.Resolve([]string{"shrivelling (u)"}), "02229", "04268")

	// A level nothing was printed at matches nothing anywhere in the chain.
	assertCodes(t, r.Resolve([]string{"shrivelling (4)"}))
}

func TestResolve_SubstringGroupsByName(t *testing.T) {
	r := newTestResolver(t)

	// No card is named exactly "sign"; the substring stage groups hits by
	// name and keeps each group's lowest level, in catalog order.
	assertCodes(t, r.Resolve([]string{"sign"}), "05040", "01095")
}

func TestResolve_SubstringWithQualifier(t *testing.T) {
	r := newTestResolver(t)
	assertCodes(t, r.Resolve([]string{"sign (3)"}), "05323")
	assertCodes(t, r.Resolve([]string{"sign (u)"}), "05323", "01095")
}

func TestResolve_FuzzyFallback(t *testing.T) {
	r := newTestResolver(t)

	// Common misspelling: no exact or substring hit, close enough to score
	// over the acceptance threshold.
	assertCodes(t, r.Resolve([]string{"shriveling"}), "01060")
}

func TestResolve_FuzzyRespectsQualifierContainment(t *testing.T) {
	r := newTestResolver(t)

	// The fuzzy stage finds "shrivelling", but the qualifier re-checks that
	// the display name contains the misspelled base, which it does not.
	assertCodes(t, r.Resolve([]string{"shriveling (3)"}))
}

func TestResolve_FuzzyThreshold(t *testing.T) {
	catalog := newTestCatalog(t, resolverCards())

	// Everything scores just under the threshold: no match.
	under := NewResolverServiceWithScorer(catalog, func(a, b string) int {
		return FuzzyThreshold - 1
	})
	assertCodes(t, under.Resolve([]string{"qqqq"}))

	// One key scores exactly at the threshold: its lowest level wins.
	at := NewResolverServiceWithScorer(catalog, func(a, b string) int {
		if b == "survivalknife" {
			return FuzzyThreshold
		}
		return 0
	})
	assertCodes(t, at.Resolve([]string{"qqqq"}), "04017")
}

func TestResolve_FuzzyTieGoesToFirstKey(t *testing.T) {
	catalog := newTestCatalog(t, resolverCards())
	r := NewResolverServiceWithScorer(catalog, func(a, b string) int {
		return 90
	})

	// Every key ties; the earliest catalog name wins.
	assertCodes(t, r.Resolve([]string{"qqqq"}), "01060")
}

func TestResolve_DedupAcrossTokens(t *testing.T) {
	r := newTestResolver(t)

	assertCodes(t, r.Resolve([]string{"shrivelling", "shrivelling"}), "01060")

	// Overlapping picks collapse; the first appearance keeps its position.
	assertCodes(t, r.Resolve([]string{"shrivelling (u)", "shrivelling (3)"}), "02229", "04268")
	assertCodes(t, r.Resolve([]string{"knife", "survival knife"}), "01086", "04017")
}

func TestResolve_SkipsBlankAndBareQualifierTokens(t *testing.T) {
	r := newTestResolver(t)

	assertCodes(t, r.Resolve([]string{"", "   "}))

	// "(2)" parses to an empty base, which matches nothing rather than
	// substring-matching the whole catalog.
	assertCodes(t, r.Resolve([]string{"(2)"}))
}

// benchmarkResolver serves a catalog large enough for the linear stages to
// cost something: the fixture printings plus a few thousand distinct names.
func benchmarkResolver(b *testing.B) *ResolverService {
	cards := resolverCards()
	for i := 0; i < 3000; i++ {
		cards = append(cards, &models.Card{
			Code: fmt.Sprintf("9%04d", i),
			Name: fmt.Sprintf("Forgotten Tome %d", i),
		})
	}
	return NewResolverService(newTestCatalog(b, cards))
}

// BenchmarkResolve_MemoizedToken benchmarks the repeat-lookup path (after the
// first pass the token is served from the memo).
func BenchmarkResolve_MemoizedToken(b *testing.B) {
	r := benchmarkResolver(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Resolve([]string{"shrivelling"})
	}
}

// BenchmarkResolve_FuzzyScan benchmarks the worst case: a never-repeated
// token that no earlier stage can place, so every iteration scores the full
// key list.
func BenchmarkResolve_FuzzyScan(b *testing.B) {
	r := benchmarkResolver(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Resolve([]string{fmt.Sprintf("shriveling %d", i)})
	}
}

func TestResolve_MemoSurvivesOnlyItsSnapshot(t *testing.T) {
	fetcher := &stubCatalogFetcher{cards: resolverCards()}
	catalog := NewCatalogService(fetcher)
	if err := catalog.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	r := NewResolverService(catalog)

	assertCodes(t, r.Resolve([]string{"shrivelling"}), "01060")
	// Second call is served from the memo with identical results.
	assertCodes(t, r.Resolve([]string{"shrivelling"}), "01060")

	// After a reload that drops the level 0 printing, the stale entry is
	// keyed to the dead generation and never consulted.
	fetcher.cards = []*models.Card{
		{Code: "02229", Name: "Shrivelling", XP: 3},
	}
	if err := catalog.Load(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	assertCodes(t, r.Resolve([]string{"shrivelling"}), "02229")
}
