package handlers

import (
	"github.com/gofiber/fiber/v2"

	"choreblimey/internal/services/settlement"
	"choreblimey/internal/services/wallet"
	"choreblimey/internal/utils/response"
)

type WalletHandler struct {
	walletService wallet.Service
	engine        settlement.Service
}

func NewWalletHandler(walletService wallet.Service, engine settlement.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		engine:        engine,
	}
}

// Get handles GET /api/wallet/:childId — the wallet row plus the unpaid
// balance projection (spendable + pending gifts).
func (h *WalletHandler) Get(c *fiber.Ctx) error {
	claims, err := extractClaims(c)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid claims", nil)
	}

	childID, err := c.ParamsInt("childId")
	if err != nil || childID <= 0 {
		return response.BadRequest(c, "invalid child id")
	}

	w, err := h.walletService.GetOrCreate(c.Context(), claims.FamilyID, uint(childID))
	if err != nil {
		return response.Domain(c, err)
	}

	unpaid, err := h.engine.UnpaidBalance(c.Context(), claims.FamilyID, uint(childID))
	if err != nil {
		return response.Domain(c, err)
	}

	return response.Success(c, fiber.Map{
		"wallet": w,
		"unpaid": unpaid,
	})
}

// Transactions handles GET /api/wallet/:childId/transactions.
func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	claims, err := extractClaims(c)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid claims", nil)
	}

	childID, err := c.ParamsInt("childId")
	if err != nil || childID <= 0 {
		return response.BadRequest(c, "invalid child id")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.FamilyID, uint(childID))
	if err != nil {
		return response.Domain(c, err)
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	txns, err := h.walletService.Transactions(c.Context(), w.ID, limit, offset)
	if err != nil {
		return response.Domain(c, err)
	}

	return response.Success(c, fiber.Map{"transactions": txns})
}
