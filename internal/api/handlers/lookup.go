package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkhambot/arkhambot/internal/models"
	"github.com/arkhambot/arkhambot/internal/services"
)

type LookupHandler struct {
	lookupService   *services.LookupService
	resolverService *services.ResolverService
}

func NewLookupHandler(lookup *services.LookupService, resolver *services.ResolverService) *LookupHandler {
	return &LookupHandler{
		lookupService:   lookup,
		resolverService: resolver,
	}
}

type lookupRequest struct {
	Text string `json:"text" binding:"required"`
}

// ProcessMessage runs the whole pipeline over one message's text: token and
// deck-link extraction, resolution, rendering, sizing. Platform adapters
// POST raw message content here and relay the reply payload.
func (h *LookupHandler) ProcessMessage(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must include 'text'"})
		return
	}

	reply, err := h.lookupService.ProcessMessage(c.Request.Context(), req.Text)
	switch {
	case errors.Is(err, services.ErrTooManyMatches):
		c.JSON(http.StatusBadRequest, gin.H{"error": services.MsgTooManyMatches})
		return
	case errors.Is(err, services.ErrNoResults):
		c.JSON(http.StatusNotFound, gin.H{"error": services.MsgNoResults})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if reply == nil {
		// Neither card tokens nor a deck link: nothing addressed to the bot.
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// SearchCards resolves one raw token and returns rendered summaries. This is
// the bare engine surface: no match cap, no flavor strings.
func (h *LookupHandler) SearchCards(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	matches := h.resolverService.Resolve([]string{query})
	summaries := make([]models.CardSummary, 0, len(matches))
	for _, m := range matches {
		summaries = append(summaries, services.RenderCard(m))
	}
	c.JSON(http.StatusOK, gin.H{"cards": summaries, "total_count": len(summaries)})
}
