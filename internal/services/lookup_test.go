package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/arkhambot/arkhambot/internal/models"
)

type stubDeckFetcher struct {
	deck    *models.Deck
	err     error
	gotKind string
	gotID   string
	calls   int
}

func (s *stubDeckFetcher) FetchDeck(ctx context.Context, kind, id string) (*models.Deck, error) {
	s.calls++
	s.gotKind, s.gotID = kind, id
	if s.err != nil {
		return nil, s.err
	}
	return s.deck, nil
}

func lookupCards() []*models.Card {
	return []*models.Card{
		{Code: "01001", Name: "Roland Banks", TypeCode: "investigator"},
		{Code: "01060", Name: "Shrivelling", XP: 0, TypeCode: "asset", Slot: "Arcane"},
		{Code: "02229", Name: "Shrivelling", XP: 3, TypeCode: "asset", Slot: "Arcane"},
		{Code: "01020", Name: "Machete", TypeCode: "asset", Slot: "Hand"},
		{Code: "01086", Name: "Knife", TypeCode: "asset", Slot: "Hand"},
		{Code: "01087", Name: "Flashlight", TypeCode: "asset", Slot: "Hand"},
		{Code: "01088", Name: "Emergency Cache", TypeCode: "event"},
		{Code: "01023", Name: "Dodge", TypeCode: "event"},
		{Code: "01089", Name: "Guts", TypeCode: "skill"},
		{Code: "01090", Name: "Overpower", TypeCode: "skill"},
		{Code: "01091", Name: "Manual Dexterity", TypeCode: "skill"},
		{Code: "01092", Name: "Unexpected Courage", TypeCode: "skill"},
	}
}

func newLookupFixture(t *testing.T, decks *stubDeckFetcher) *LookupService {
	t.Helper()
	catalog := newTestCatalog(t, lookupCards())
	resolver := NewResolverService(catalog)
	return NewLookupService(catalog, resolver, decks)
}

func TestProcessMessage_CardsOnly(t *testing.T) {
	decks := &stubDeckFetcher{}
	svc := newLookupFixture(t, decks)

	reply, err := svc.ProcessMessage(context.Background(), "what does [[shrivelling]] do again?")
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}
	if reply == nil {
		t.Fatal("expected a reply")
	}
	if reply.RequestID == "" {
		t.Error("RequestID should be set")
	}
	if len(reply.Cards) != 1 || reply.Cards[0].Title != "Shrivelling" {
		t.Errorf("Cards = %+v, want the level 0 Shrivelling", reply.Cards)
	}
	if len(reply.DeckSections) != 0 {
		t.Errorf("DeckSections = %+v, want none", reply.DeckSections)
	}
	if reply.Big {
		t.Error("one card should not be a big response")
	}
	if reply.ThreadName != "" {
		t.Errorf("ThreadName = %q, want empty for a small reply", reply.ThreadName)
	}
	if decks.calls != 0 {
		t.Error("no deck link was present, fetcher should not be called")
	}
}

func TestProcessMessage_PlainTextIgnored(t *testing.T) {
	decks := &stubDeckFetcher{}
	svc := newLookupFixture(t, decks)

	reply, err := svc.ProcessMessage(context.Background(), "anyone up for a campaign session tonight?")
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}
	if reply != nil {
		t.Errorf("reply = %+v, want nil for a message with nothing addressed to the bot", reply)
	}
	if decks.calls != 0 {
		t.Error("fetcher should not be called")
	}
}

func TestProcessMessage_NoResults(t *testing.T) {
	svc := newLookupFixture(t, &stubDeckFetcher{})

	reply, err := svc.ProcessMessage(context.Background(), "[[qqqqxyzzy]]")
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("err = %v, want ErrNoResults", err)
	}
	if reply != nil {
		t.Errorf("reply = %+v, want nil", reply)
	}
}

func TestProcessMessage_TooManyRejectsBeforeDeckFetch(t *testing.T) {
	decks := &stubDeckFetcher{deck: &models.Deck{Name: "x", Slots: map[string]int{}}}
	svc := newLookupFixture(t, decks)

	text := "[[shrivelling]] [[machete]] [[knife]] [[flashlight]] [[emergency cache]] " +
		"[[dodge]] [[guts]] [[overpower]] [[manual dexterity]] " +
		"https://arkhamdb.com/decklist/view/101/list"

	reply, err := svc.ProcessMessage(context.Background(), text)
	if !errors.Is(err, ErrTooManyMatches) {
		t.Fatalf("err = %v, want ErrTooManyMatches", err)
	}
	if reply != nil {
		t.Errorf("reply = %+v, want nil: no partial results past the cap", reply)
	}
	if decks.calls != 0 {
		t.Error("rejection happens before the deck is ever fetched")
	}
}

func TestProcessMessage_DeckOnly(t *testing.T) {
	decks := &stubDeckFetcher{deck: &models.Deck{
		Name:             "Roland the Fed",
		InvestigatorCode: "01001",
		Version:          "1.0",
		Slots:            map[string]int{"01023": 2, "01088": 1},
	}}
	svc := newLookupFixture(t, decks)

	reply, err := svc.ProcessMessage(context.Background(), "thoughts? https://arkhamdb.com/decklist/view/101/roland-the-fed")
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}
	if decks.gotKind != "decklist" || decks.gotID != "101" {
		t.Errorf("fetched %s/%s, want decklist/101", decks.gotKind, decks.gotID)
	}
	if len(reply.Cards) != 0 {
		t.Errorf("Cards = %+v, want none", reply.Cards)
	}
	if len(reply.DeckSections) != 2 {
		t.Fatalf("got %d sections, want header + Events", len(reply.DeckSections))
	}
	if reply.DeckSections[0].Title != "Roland Banks: Roland the Fed 1.0" {
		t.Errorf("header = %q", reply.DeckSections[0].Title)
	}
	if reply.DeckSections[1].Title != "Events" {
		t.Errorf("category section = %q", reply.DeckSections[1].Title)
	}
	if reply.Big {
		t.Error("two sections should not be a big response")
	}
}

func TestProcessMessage_CardsAndDeckTogether(t *testing.T) {
	decks := &stubDeckFetcher{deck: &models.Deck{
		Name:             "Roland the Fed",
		InvestigatorCode: "01001",
		Version:          "1.0",
		Slots:            map[string]int{"01023": 2},
	}}
	svc := newLookupFixture(t, decks)

	reply, err := svc.ProcessMessage(context.Background(), "[[machete]] fits in https://arkhamdb.com/deck/view/55/wip")
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}
	if decks.gotKind != "deck" || decks.gotID != "55" {
		t.Errorf("fetched %s/%s, want deck/55", decks.gotKind, decks.gotID)
	}
	if len(reply.Cards) != 1 || reply.Cards[0].Title != "Machete" {
		t.Errorf("Cards = %+v", reply.Cards)
	}
	if len(reply.DeckSections) != 2 {
		t.Errorf("got %d deck sections, want 2", len(reply.DeckSections))
	}
	if reply.DeckError != "" {
		t.Errorf("DeckError = %q, want empty", reply.DeckError)
	}
}

func TestProcessMessage_DeckFailureStillDeliversCards(t *testing.T) {
	decks := &stubDeckFetcher{err: errors.New("upstream 500")}
	svc := newLookupFixture(t, decks)

	reply, err := svc.ProcessMessage(context.Background(), "[[machete]] in https://arkhamdb.com/deck/view/55/wip")
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}
	if len(reply.Cards) != 1 {
		t.Errorf("Cards = %+v, want the card results to survive", reply.Cards)
	}
	if reply.DeckError != MsgDeckFetchFailed {
		t.Errorf("DeckError = %q, want the fetch-failed notice", reply.DeckError)
	}
	if len(reply.DeckSections) != 0 {
		t.Errorf("DeckSections = %+v, want none", reply.DeckSections)
	}
}

func TestProcessMessage_NoMatchesWithDeckStillProceeds(t *testing.T) {
	decks := &stubDeckFetcher{deck: &models.Deck{
		Name:             "Roland the Fed",
		InvestigatorCode: "01001",
		Version:          "1.0",
		Slots:            map[string]int{"01023": 1},
	}}
	svc := newLookupFixture(t, decks)

	reply, err := svc.ProcessMessage(context.Background(), "[[qqqqxyzzy]] https://arkhamdb.com/decklist/view/101/x")
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}
	if len(reply.Cards) != 0 {
		t.Errorf("Cards = %+v, want none", reply.Cards)
	}
	if len(reply.DeckSections) != 2 {
		t.Errorf("got %d deck sections, want the deck to still compose", len(reply.DeckSections))
	}
}

func TestProcessMessage_BigResponseNamesThread(t *testing.T) {
	svc := newLookupFixture(t, &stubDeckFetcher{})

	reply, err := svc.ProcessMessage(context.Background(), "[[machete]] [[knife]] [[flashlight]] [[dodge]]")
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}
	if !reply.Big {
		t.Fatal("four cards should be a big response")
	}
	if reply.ThreadName != "arkhamdb: Machete" {
		t.Errorf("ThreadName = %q, want the first card title", reply.ThreadName)
	}
}

func TestProcessMessage_ThreadNamePrefersDeckAndTruncates(t *testing.T) {
	longName := strings.Repeat("The Longest Expedition ", 6) // well past 80 runes with the header
	decks := &stubDeckFetcher{deck: &models.Deck{
		Name:             longName,
		InvestigatorCode: "01001",
		Version:          "1.0",
		Slots:            map[string]int{"01023": 1},
	}}
	svc := newLookupFixture(t, decks)

	reply, err := svc.ProcessMessage(context.Background(),
		"[[machete]] [[knife]] [[flashlight]] [[dodge]] https://arkhamdb.com/decklist/view/101/x")
	if err != nil {
		t.Fatalf("ProcessMessage() failed: %v", err)
	}
	if !reply.Big {
		t.Fatal("expected a big response")
	}
	if !strings.HasPrefix(reply.ThreadName, "arkhamdb: Roland Banks: The Longest Expedition") {
		t.Errorf("ThreadName = %q, want it built from the deck header", reply.ThreadName)
	}
	if got := utf8.RuneCountInString(reply.ThreadName); got != len("arkhamdb: ")+80 {
		t.Errorf("ThreadName is %d runes, want the hint capped at 80", got)
	}
}
