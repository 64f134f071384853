package services

import (
	"regexp"
	"strings"

	"github.com/arkhambot/arkhambot/internal/models"
)

var (
	// cardTokenRE captures [[...]] searches in message text.
	cardTokenRE = regexp.MustCompile(`\[\[(.+?)\]\]`)

	// deckURLRE matches deck and decklist links, tolerating a missing
	// scheme and stopping before whitespace or closing markdown brackets.
	deckURLRE = regexp.MustCompile(`(?i)(https?://)?(www\.)?arkhamdb\.com/(deck/view|decklist/view)/([^\s\])]*)`)
)

// ExtractCardTokens pulls every [[...]] search token out of message text, in
// order of appearance.
func ExtractCardTokens(text string) []string {
	found := cardTokenRE.FindAllStringSubmatch(text, -1)
	tokens := make([]string, 0, len(found))
	for _, m := range found {
		tokens = append(tokens, m[1])
	}
	return tokens
}

// ExtractDeckRef finds the first deck or decklist link in message text, or
// nil when there is none.
func ExtractDeckRef(text string) *models.DeckRef {
	m := deckURLRE.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	kind := "decklist"
	if strings.Contains(strings.ToLower(m[3]), "deck/view") {
		kind = "deck"
	}
	return &models.DeckRef{Kind: kind, ID: sanitizeDeckID(m[4])}
}

// sanitizeDeckID cuts the raw URL tail down to the bare identifier: deck
// links usually carry a /name-slug suffix, and links pasted inside markdown
// can drag closing brackets along.
func sanitizeDeckID(raw string) string {
	for _, sep := range []string{"/", "]", ")"} {
		if i := strings.Index(raw, sep); i >= 0 {
			raw = raw[:i]
		}
	}
	return raw
}
