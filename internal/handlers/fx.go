package handlers

import (
	"context"

	"fxwallet/internal/models"
	"fxwallet/internal/services/ledger"
	"fxwallet/internal/utils"
	"fxwallet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RateLister returns every supported rate quoted against base.
type RateLister interface {
	GetAllRates(ctx context.Context, base models.Currency) ([]models.FxRate, error)
}

type FxHandler struct {
	ledger ledger.Service
	rates  RateLister
}

func NewFxHandler(ledgerService ledger.Service, rates RateLister) *FxHandler {
	return &FxHandler{
		ledger: ledgerService,
		rates:  rates,
	}
}

// PreviewConversion quotes ?amount of ?from in ?to without touching any balance.
func (h *FxHandler) PreviewConversion(c *fiber.Ctx) error {
	from, err := validation.ParseCurrency(c.Query("from"))
	if err != nil {
		return utils.Error(c, err)
	}
	to, err := validation.ParseCurrency(c.Query("to"))
	if err != nil {
		return utils.Error(c, err)
	}
	amount, err := validation.ParseAmount(c.Query("amount"))
	if err != nil {
		return utils.Error(c, err)
	}

	conversion, err := h.ledger.PreviewConversion(c.UserContext(), from, to, amount)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, conversion)
}

// GetRates lists the rates for ?base (NGN when omitted).
func (h *FxHandler) GetRates(c *fiber.Ctx) error {
	base, err := validation.ParseCurrency(c.Query("base", string(models.CurrencyNGN)))
	if err != nil {
		return utils.Error(c, err)
	}

	rates, err := h.rates.GetAllRates(c.UserContext(), base)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"base":  base,
		"rates": rates,
	})
}
