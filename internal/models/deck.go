package models

// DeckRef is a deck link parsed out of message text: which public endpoint
// family it points at and the raw identifier that followed it.
type DeckRef struct {
	Kind string `json:"kind"` // "deck" or "decklist"
	ID   string `json:"id"`
}

// Deck mirrors the ArkhamDB deck/decklist payload. Slots maps card code to
// owned quantity. Decks are fetched fresh for every request and never cached.
type Deck struct {
	Name             string         `json:"name"`
	InvestigatorCode string         `json:"investigator_code"`
	Version          string         `json:"version"`
	Slots            map[string]int `json:"slots"`

	// Kind and WebID come from the requesting URL, not the payload.
	Kind  string `json:"-"`
	WebID string `json:"-"`
}
