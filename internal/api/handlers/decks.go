package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkhambot/arkhambot/internal/services"
)

type DeckHandler struct {
	catalogService *services.CatalogService
	deckFetcher    services.DeckFetcher
}

func NewDeckHandler(catalog *services.CatalogService, decks services.DeckFetcher) *DeckHandler {
	return &DeckHandler{
		catalogService: catalog,
		deckFetcher:    decks,
	}
}

// GetDeckSections fetches a deck from ArkhamDB and renders its display
// sections: header first, then one or more sections per populated category.
func (h *DeckHandler) GetDeckSections(c *gin.Context) {
	kind := c.Param("kind")
	if kind != "deck" && kind != "decklist" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be 'deck' or 'decklist'"})
		return
	}
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deck id is required"})
		return
	}

	deck, err := h.deckFetcher.FetchDeck(c.Request.Context(), kind, id)
	if err != nil {
		var fetchErr *services.FetchError
		if errors.As(err, &fetchErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": services.MsgDeckFetchFailed})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sections := services.ComposeDeck(deck, h.catalogService.Snapshot())
	c.JSON(http.StatusOK, gin.H{
		"sections": sections,
		"big":      services.IsBigResponse(0, len(sections)),
	})
}
