package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arkhambot/arkhambot/internal/models"
)

const (
	// sectionBodyLimit is the safety threshold under the 4096-character
	// platform cap: a category body at or below it ships as one section.
	sectionBodyLimit = 3800
	// sectionChunkLimit bounds each chunk when a category body must split.
	sectionChunkLimit = 1500
	// slotSentinel sorts slotless assets after every real slot name.
	slotSentinel = "zzzzzz"
)

// deckCategories is the fixed display order. Permanent is not a type code:
// it collects cards with the permanent flag, which overrides their type.
var deckCategories = [...]string{"Asset", "Permanent", "Event", "Skill", "Treachery", "Enemy"}

// ComposeDeck renders a deck against one catalog snapshot as an ordered list
// of display sections: a header (investigator, deck name, link) followed by
// one or more sections per non-empty category. Pure with respect to its
// inputs; the same deck and snapshot always compose identically.
func ComposeDeck(deck *models.Deck, snap *CatalogSnapshot) []models.Section {
	invName := "Investigator"
	if inv, ok := snap.CodeIndex[deck.InvestigatorCode]; ok {
		invName = inv.Name
	}

	sections := []models.Section{{
		Title: fmt.Sprintf("%s: %s %s", invName, deck.Name, deck.Version),
		URL:   deckViewURL(deck.Kind, deck.WebID),
	}}

	// Deck cards keep catalog order, not slot-map order.
	var deckCards []*models.Card
	for _, c := range snap.Cards {
		if _, ok := deck.Slots[c.Code]; ok {
			deckCards = append(deckCards, c)
		}
	}

	for _, category := range deckCategories {
		catCards := filterCategory(deckCards, category)
		if len(catCards) == 0 {
			continue
		}
		sections = append(sections, paginateCategory(category, categoryLines(category, catCards, deck.Slots))...)
	}
	return sections
}

func deckViewURL(kind, id string) string {
	if kind == "deck" {
		return "https://arkhamdb.com/deck/view/" + id
	}
	return "https://arkhamdb.com/decklist/view/" + id
}

func filterCategory(cards []*models.Card, category string) []*models.Card {
	var out []*models.Card
	if category == "Permanent" {
		for _, c := range cards {
			if c.Permanent {
				out = append(out, c)
			}
		}
		return out
	}
	typeCode := strings.ToLower(category)
	for _, c := range cards {
		if c.TypeCode == typeCode && !c.Permanent {
			out = append(out, c)
		}
	}
	return out
}

// categoryLines renders one category's card lines. Assets are stably sorted
// by slot (slotless last) and get a sub-heading line each time the slot
// changes; every other category keeps catalog-resolution order.
func categoryLines(category string, cards []*models.Card, slots map[string]int) []string {
	var lines []string

	if category == "Asset" {
		sorted := make([]*models.Card, len(cards))
		copy(sorted, cards)
		sort.SliceStable(sorted, func(i, j int) bool {
			return slotSortKey(sorted[i]) < slotSortKey(sorted[j])
		})

		lastSlot := ""
		for _, c := range sorted {
			slot := c.Slot
			if slot == "" {
				slot = "Other"
			}
			if slot != lastSlot {
				lines = append(lines, fmt.Sprintf("\n**%s:**", slot))
				lastSlot = slot
			}
			lines = append(lines, "- "+cardLine(c, slots))
		}
		return lines
	}

	for _, c := range cards {
		lines = append(lines, "- "+cardLine(c, slots))
	}
	return lines
}

func slotSortKey(c *models.Card) string {
	if c.Slot == "" {
		return slotSentinel
	}
	return c.Slot
}

// cardLine is one deck entry: quantity, linked name, level suffix when the
// printing is upgraded.
func cardLine(c *models.Card, slots map[string]int) string {
	qty, ok := slots[c.Code]
	if !ok {
		qty = 1
	}
	line := fmt.Sprintf("%d × [%s]", qty, c.Name)
	if c.XP > 0 {
		line += fmt.Sprintf(" (%d)", c.XP)
	}
	return line + fmt.Sprintf(" (%s)", c.URL)
}

// paginateCategory turns a category's lines into sections. A body at or
// under sectionBodyLimit ships whole; anything longer is greedily packed
// into chunks whose accumulated line-plus-separator length stays within
// sectionChunkLimit (a single oversized line still occupies a chunk alone),
// each chunk titled with its position in the split.
func paginateCategory(category string, lines []string) []models.Section {
	title := category + "s"
	body := strings.Join(lines, "\n")
	if utf8.RuneCountInString(body) <= sectionBodyLimit {
		return []models.Section{{Title: title, Body: body}}
	}

	var chunks []string
	var buf []string
	count := 0
	for _, line := range lines {
		n := utf8.RuneCountInString(line) + 1
		if len(buf) > 0 && count+n > sectionChunkLimit {
			chunks = append(chunks, strings.Join(buf, "\n"))
			buf = nil
			count = 0
		}
		buf = append(buf, line)
		count += n
	}
	if len(buf) > 0 {
		chunks = append(chunks, strings.Join(buf, "\n"))
	}

	sections := make([]models.Section, len(chunks))
	for i, chunk := range chunks {
		sections[i] = models.Section{
			Title:     fmt.Sprintf("%s [%d/%d]", title, i+1, len(chunks)),
			Body:      chunk,
			Paginated: true,
		}
	}
	return sections
}
