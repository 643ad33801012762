package handlers

import (
	"context"

	apperrors "fxwallet/internal/errors"
	"fxwallet/internal/models"
	"fxwallet/internal/services/ledger"
	"fxwallet/internal/utils"
	"fxwallet/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader is accepted when the body omits idempotencyKey.
const IdempotencyKeyHeader = "Idempotency-Key"

type WalletHandler struct {
	ledger ledger.Service
}

func NewWalletHandler(ledgerService ledger.Service) *WalletHandler {
	return &WalletHandler{
		ledger: ledgerService,
	}
}

type operationInput struct {
	Currency       string `json:"currency"`
	Amount         string `json:"amount"`
	IdempotencyKey string `json:"idempotencyKey"`
}

type tradeInput struct {
	FromCurrency   string `json:"fromCurrency"`
	ToCurrency     string `json:"toCurrency"`
	Amount         string `json:"amount"`
	IdempotencyKey string `json:"idempotencyKey"`
}

type transferInput struct {
	ReceiverUserID string `json:"receiverUserId"`
	Currency       string `json:"currency"`
	Amount         string `json:"amount"`
	IdempotencyKey string `json:"idempotencyKey"`
}

func idempotencyKey(c *fiber.Ctx, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return c.Get(IdempotencyKeyHeader)
}

func (h *WalletHandler) OpenWallet(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	view, err := h.ledger.OpenWallet(c.UserContext(), userID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, view)
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	view, err := h.ledger.GetWallet(c.UserContext(), userID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, view)
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	currency, err := validation.ParseCurrency(c.Params("currency"))
	if err != nil {
		return utils.Error(c, err)
	}

	balance, err := h.ledger.GetBalance(c.UserContext(), userID, currency)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, balance)
}

func (h *WalletHandler) Fund(c *fiber.Ctx) error {
	return h.singleCurrency(c, h.ledger.Fund)
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	return h.singleCurrency(c, h.ledger.Withdraw)
}

func (h *WalletHandler) singleCurrency(c *fiber.Ctx, op func(context.Context, ledger.OperationRequest) (*models.Transaction, error)) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input operationInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	currency, err := validation.ParseCurrency(input.Currency)
	if err != nil {
		return utils.Error(c, err)
	}
	amount, err := validation.ParseAmount(input.Amount)
	if err != nil {
		return utils.Error(c, err)
	}

	tx, err := op(c.UserContext(), ledger.OperationRequest{
		UserID:         userID,
		Currency:       currency,
		Amount:         amount,
		IdempotencyKey: idempotencyKey(c, input.IdempotencyKey),
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, tx)
}

func (h *WalletHandler) Trade(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input tradeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	from, err := validation.ParseCurrency(input.FromCurrency)
	if err != nil {
		return utils.Error(c, err)
	}
	to, err := validation.ParseCurrency(input.ToCurrency)
	if err != nil {
		return utils.Error(c, err)
	}
	amount, err := validation.ParseAmount(input.Amount)
	if err != nil {
		return utils.Error(c, err)
	}

	tx, err := h.ledger.Trade(c.UserContext(), ledger.TradeRequest{
		UserID:         userID,
		From:           from,
		To:             to,
		Amount:         amount,
		IdempotencyKey: idempotencyKey(c, input.IdempotencyKey),
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, tx)
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input transferInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	receiverID, err := uuid.Parse(input.ReceiverUserID)
	if err != nil {
		return utils.Error(c, apperrors.ErrInvalidUser.WithMessage("invalid receiver user id"))
	}
	currency, err := validation.ParseCurrency(input.Currency)
	if err != nil {
		return utils.Error(c, err)
	}
	amount, err := validation.ParseAmount(input.Amount)
	if err != nil {
		return utils.Error(c, err)
	}

	tx, err := h.ledger.Transfer(c.UserContext(), ledger.TransferRequest{
		SenderUserID:   userID,
		ReceiverUserID: receiverID,
		Currency:       currency,
		Amount:         amount,
		IdempotencyKey: idempotencyKey(c, input.IdempotencyKey),
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, tx)
}
