package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/arkhambot/arkhambot/internal/models"
)

const (
	arkhamDBBaseURL   = "https://arkhamdb.com"
	arkhamDBTimeout   = 30 * time.Second
	arkhamDBUserAgent = "ArkhamBot/1.0"
)

// ArkhamDBService is the HTTP collaborator for the public ArkhamDB API: the
// full card feed for catalog loads, plus per-deck payloads. Every failure
// comes back as a *FetchError so callers can treat the whole family as one
// "upstream broke" condition.
type ArkhamDBService struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewArkhamDBService builds a client against baseURL, defaulting to the
// public site when empty. The limiter keeps the bot polite toward the shared
// API however chatty the channels get; it is not caller-facing throttling.
func NewArkhamDBService(baseURL string) *ArkhamDBService {
	if baseURL == "" {
		baseURL = arkhamDBBaseURL
	}
	return &ArkhamDBService{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: arkhamDBTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 4), // 2 req/s, burst 4
	}
}

// FetchCards retrieves the full card catalog, encounter cards included.
func (s *ArkhamDBService) FetchCards(ctx context.Context) ([]*models.Card, error) {
	var cards []*models.Card
	if err := s.getJSON(ctx, s.baseURL+"/api/public/cards?encounter=1", &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// FetchDeck retrieves one private-shared deck or published decklist. The id
// is sanitized the same way the URL extractor does it, so raw handler input
// can pass straight through.
func (s *ArkhamDBService) FetchDeck(ctx context.Context, kind, id string) (*models.Deck, error) {
	id = sanitizeDeckID(id)
	var reqURL string
	if kind == "deck" {
		reqURL = fmt.Sprintf("%s/api/public/deck/%s", s.baseURL, id)
	} else {
		kind = "decklist"
		reqURL = fmt.Sprintf("%s/api/public/decklist/%s", s.baseURL, id)
	}

	var deck models.Deck
	if err := s.getJSON(ctx, reqURL, &deck); err != nil {
		return nil, err
	}
	deck.Kind = kind
	deck.WebID = id
	return &deck, nil
}

// getJSON performs one throttled GET and decodes the body into out. The
// upstream sometimes serves JSON under an off Content-Type, so the body is
// decoded unconditionally.
func (s *ArkhamDBService) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &FetchError{URL: reqURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{URL: reqURL, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", arkhamDBUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return &FetchError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{URL: reqURL, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{URL: reqURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
