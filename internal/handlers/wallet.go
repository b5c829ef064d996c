package handlers

import (
	"errors"
	"log"

	"earnsure/internal/services/ledger"
	"earnsure/internal/services/withdrawal"
	"earnsure/internal/utils"
	"earnsure/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	ledgerService     ledger.Service
	withdrawalService withdrawal.Service
}

func NewWalletHandler(ledgerService ledger.Service, withdrawalService withdrawal.Service) *WalletHandler {
	return &WalletHandler{
		ledgerService:     ledgerService,
		withdrawalService: withdrawalService,
	}
}

// GetWallet returns the authenticated user's coin balance.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	coins, err := h.ledgerService.Balance(c.Context(), claims.UserID)
	if err != nil {
		log.Printf("Failed to load balance for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to load wallet")
	}

	return utils.Success(c, fiber.Map{
		"coins":    coins,
		"currency": float64(coins) / withdrawal.CoinConversionRate,
	})
}

// GetTransactions lists the user's ledger history, newest first.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	p := utils.GetPagination(c, 1, 20)

	txs, err := h.ledgerService.History(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load transactions")
	}

	return utils.Success(c, fiber.Map{
		"transactions": txs,
		"page":         p.Page,
		"limit":        p.Limit,
	})
}

// RequestWithdrawal redeems the user's full balance into a pending request.
func (h *WalletHandler) RequestWithdrawal(c *fiber.Ctx) error {
	var input struct {
		Method  string `json:"method"`
		Details string `json:"details"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	v := validation.New()
	v.WithdrawalInput(input.Method, input.Details)
	if !v.Valid() {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"errors": v.Errors})
	}

	req, err := h.withdrawalService.CreateRequest(c.Context(), claims.UserID, input.Method, input.Details)
	if err != nil {
		switch {
		case errors.Is(err, withdrawal.ErrInvalidMethod):
			return utils.BadRequest(c, "Unsupported withdrawal method")
		case errors.Is(err, withdrawal.ErrBelowMinimum):
			return utils.BadRequest(c, "Balance is below the withdrawal minimum")
		}
		log.Printf("Withdrawal request failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to create withdrawal request")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"request": req})
}

// GetWithdrawals lists the user's own withdrawal requests.
func (h *WalletHandler) GetWithdrawals(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	p := utils.GetPagination(c, 1, 20)

	reqs, err := h.withdrawalService.ListByUser(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load withdrawals")
	}

	return utils.Success(c, fiber.Map{
		"withdrawals": reqs,
		"page":        p.Page,
		"limit":       p.Limit,
	})
}
