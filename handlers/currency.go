package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"zawamu/currency"
)

type CurrencyService interface {
	Rates(ctx context.Context) currency.Table
	Convert(ctx context.Context, amount float64, from, to string) (*currency.Conversion, error)
}

type CurrencyHandler struct {
	svc CurrencyService
}

func NewCurrencyHandler(svc CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{svc: svc}
}

func (h *CurrencyHandler) Rates(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	c.JSON(http.StatusOK, h.svc.Rates(ctx))
}

// Convert handles ?amount=&from=&to=, defaulting to USD into KES.
func (h *CurrencyHandler) Convert(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid amount"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	conv, err := h.svc.Convert(ctx, amount, c.DefaultQuery("from", "USD"), c.DefaultQuery("to", "KES"))
	if errors.Is(err, currency.ErrUnknownCurrency) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown currency"})
		return
	}
	if err != nil {
		serverError(c, "Server error", err)
		return
	}
	c.JSON(http.StatusOK, conv)
}
