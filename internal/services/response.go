package services

// MaxCardMatches caps how many distinct cards one request may resolve.
// Past it the whole request is rejected before rendering rather than
// silently truncated.
const MaxCardMatches = 8

// IsBigResponse decides whether a result set should escape to a side
// channel (a thread) instead of the primary reply stream: more than three
// cards, or a deck spilling past ten display sections. The section count
// includes the deck header.
func IsBigResponse(cardCount, deckSectionCount int) bool {
	return cardCount > 3 || deckSectionCount > 10
}
