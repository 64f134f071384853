package models

// Section is one display unit of a composed deck: a titled block of text
// sized to fit a single platform message component.
type Section struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	URL       string `json:"url,omitempty"`
	Paginated bool   `json:"paginated"` // true when the block is one chunk of a split category
}

// SummaryField is one labeled attribute row on a card summary.
type SummaryField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CardSummary is the platform-neutral rendering of a single card. A platform
// adapter maps it onto whatever rich-message primitive it has (embed, flex
// bubble, plain text).
type CardSummary struct {
	Title    string         `json:"title"`
	URL      string         `json:"url,omitempty"`
	Text     string         `json:"text,omitempty"`
	ImageURL string         `json:"image_url,omitempty"`
	Fields   []SummaryField `json:"fields,omitempty"`
	Footer   string         `json:"footer"`
}

// LookupReply is everything a caller needs to answer one message: rendered
// card summaries, composed deck sections, and the sizing decision. DeckError
// carries a user-facing notice when the deck part failed but card results
// survived.
type LookupReply struct {
	RequestID    string        `json:"request_id"`
	Cards        []CardSummary `json:"cards"`
	DeckSections []Section     `json:"deck_sections"`
	DeckError    string        `json:"deck_error,omitempty"`
	Big          bool          `json:"big"`
	ThreadName   string        `json:"thread_name,omitempty"`
}
