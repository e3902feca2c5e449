package handlers

import (
	"errors"
	"net/http"

	"stock-simulator/ledger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TradeHandler serves the mutating ledger routes and transaction history.
type TradeHandler struct {
	Ledger *ledger.Service
}

func NewTradeHandler(svc *ledger.Service) *TradeHandler {
	return &TradeHandler{Ledger: svc}
}

type depositInput struct {
	Amount string `json:"amount" binding:"required"`
}

func (h *TradeHandler) Deposit(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var input depositInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidAmount.Error()})
		return
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidAmount.Error()})
		return
	}

	if err := h.Ledger.Deposit(c.Request.Context(), userID, amount); err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deposit completed"})
}

type tradeInput struct {
	Symbol string `json:"symbol" binding:"required"`
	Shares int64  `json:"shares" binding:"required"`
}

func (h *TradeHandler) Buy(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var input tradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		// Covers missing fields and fractional share counts, which do not
		// bind to an integer field.
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidShareCount.Error()})
		return
	}

	entry, err := h.Ledger.Buy(c.Request.Context(), userID, input.Symbol, input.Shares)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *TradeHandler) Sell(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var input tradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ledger.ErrInvalidShareCount.Error()})
		return
	}

	entry, err := h.Ledger.Sell(c.Request.Context(), userID, input.Symbol, input.Shares)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *TradeHandler) History(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	history, err := h.Ledger.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// respondLedgerError maps ledger validation failures to client statuses.
// Anything unrecognized is an internal failure and stays generic.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidShareCount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrUnknownSymbol),
		errors.Is(err, ledger.ErrNoHolding):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientShares):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
