package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/arkhambot/arkhambot/internal/metrics"
	"github.com/arkhambot/arkhambot/internal/models"
)

// DeckFetcher pulls one deck's structured data. Decks are fetched fresh per
// request; nothing caches them.
type DeckFetcher interface {
	FetchDeck(ctx context.Context, kind, id string) (*models.Deck, error)
}

// Flavor strings surfaced to end users. The taxonomy errors stay terse for
// logs; callers map them to these.
const (
	MsgNoResults       = "Your search returned no results. Take 1 horror."
	MsgTooManyMatches  = "Your search returned more than 8 cards, and that's my hand limit. Take 1 horror."
	MsgDeckFetchFailed = "Something went wrong attempting to retrieve your deck from ArkhamDB. Take 1 horror."
)

// LookupService runs the full message pipeline: extraction, resolution,
// rendering, deck composition, sizing. One logical request end to end, no
// internal fan-out.
type LookupService struct {
	catalog  *CatalogService
	resolver *ResolverService
	decks    DeckFetcher
}

func NewLookupService(catalog *CatalogService, resolver *ResolverService, decks DeckFetcher) *LookupService {
	return &LookupService{catalog: catalog, resolver: resolver, decks: decks}
}

// ProcessMessage answers one inbound message. It returns (nil, nil) when the
// text carries neither card tokens nor a deck link; ErrTooManyMatches when
// the resolved count blows past MaxCardMatches (the whole request is
// rejected, deck included, before anything renders); ErrNoResults when
// tokens matched nothing and no deck link was present. A deck fetch failure
// is partial: DeckError is set and any card summaries still deliver.
func (s *LookupService) ProcessMessage(ctx context.Context, text string) (*models.LookupReply, error) {
	tokens := ExtractCardTokens(text)
	deckRef := ExtractDeckRef(text)
	if len(tokens) == 0 && deckRef == nil {
		metrics.LookupsTotal.WithLabelValues("ignored").Inc()
		return nil, nil
	}

	reqID := uuid.New().String()
	reply := &models.LookupReply{RequestID: reqID}

	if len(tokens) > 0 {
		matches := s.resolver.Resolve(tokens)
		if len(matches) > MaxCardMatches {
			log.Printf("Lookup %s: %d tokens resolved to %d matches, over the cap", reqID, len(tokens), len(matches))
			metrics.LookupsTotal.WithLabelValues("too_many").Inc()
			return nil, ErrTooManyMatches
		}
		if len(matches) == 0 && deckRef == nil {
			log.Printf("Lookup %s: no matches for %d tokens", reqID, len(tokens))
			metrics.LookupsTotal.WithLabelValues("no_results").Inc()
			return nil, ErrNoResults
		}
		for _, m := range matches {
			reply.Cards = append(reply.Cards, RenderCard(m))
		}
	}

	if deckRef != nil {
		deck, err := s.decks.FetchDeck(ctx, deckRef.Kind, deckRef.ID)
		if err != nil {
			log.Printf("Lookup %s: deck %s/%s fetch failed: %v", reqID, deckRef.Kind, deckRef.ID, err)
			metrics.DeckFetchesTotal.WithLabelValues("failure").Inc()
			reply.DeckError = MsgDeckFetchFailed
		} else {
			metrics.DeckFetchesTotal.WithLabelValues("success").Inc()
			reply.DeckSections = ComposeDeck(deck, s.catalog.Snapshot())
			metrics.DeckSections.Observe(float64(len(reply.DeckSections)))
		}
	}

	reply.Big = IsBigResponse(len(reply.Cards), len(reply.DeckSections))
	if reply.Big {
		reply.ThreadName = threadName(reply)
	}
	metrics.LookupsTotal.WithLabelValues("ok").Inc()
	return reply, nil
}

// threadName suggests a side-channel title from the first deck section or
// first card, capped at 80 characters of hint.
func threadName(reply *models.LookupReply) string {
	hint := ""
	if len(reply.DeckSections) > 0 {
		hint = reply.DeckSections[0].Title
	} else if len(reply.Cards) > 0 {
		hint = reply.Cards[0].Title
	}
	hint = strings.TrimSpace(hint)
	if r := []rune(hint); len(r) > 80 {
		hint = string(r[:80])
	}
	if hint == "" {
		hint = "results"
	}
	return "arkhamdb: " + hint
}
