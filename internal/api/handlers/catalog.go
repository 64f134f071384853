package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arkhambot/arkhambot/internal/services"
)

type CatalogHandler struct {
	worker *services.CatalogWorker
}

func NewCatalogHandler(worker *services.CatalogWorker) *CatalogHandler {
	return &CatalogHandler{worker: worker}
}

// Reload triggers an immediate catalog refresh. This backs the operator
// "reload the card cache" command; the scheduled worker keeps running.
func (h *CatalogHandler) Reload(c *gin.Context) {
	if err := h.worker.RefreshNow(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog reload failed: " + err.Error()})
		return
	}
	status := h.worker.Status()
	c.JSON(http.StatusOK, gin.H{"message": "card cache reloaded", "card_count": status.CardCount})
}

// Status reports the refresh worker's view of the catalog.
func (h *CatalogHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.Status())
}
