package handlers

import (
	"net/http"

	"stock-simulator/portfolio"
	"stock-simulator/quotes"

	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves the valuation view and standalone quote lookups.
type PortfolioHandler struct {
	Valuer *portfolio.Valuer
	Quotes quotes.Source
}

func NewPortfolioHandler(valuer *portfolio.Valuer, src quotes.Source) *PortfolioHandler {
	return &PortfolioHandler{Valuer: valuer, Quotes: src}
}

func (h *PortfolioHandler) Portfolio(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	valuation, err := h.Valuer.Value(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, valuation)
}

func (h *PortfolioHandler) Quote(c *gin.Context) {
	quote, err := h.Quotes.Lookup(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid symbol"})
		return
	}

	c.JSON(http.StatusOK, quote)
}
