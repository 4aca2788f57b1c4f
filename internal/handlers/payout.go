package handlers

import (
	"github.com/gofiber/fiber/v2"

	"choreblimey/internal/models"
	"choreblimey/internal/services/settlement"
	"choreblimey/internal/utils/response"
	"choreblimey/internal/validation"
)

type PayoutHandler struct {
	engine settlement.Service
}

func NewPayoutHandler(engine settlement.Service) *PayoutHandler {
	return &PayoutHandler{engine: engine}
}

// extractClaims is a helper shared by the handlers in this package.
func extractClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// Settle handles POST /api/payouts. The caller's family comes from the
// token, never the body.
func (h *PayoutHandler) Settle(c *fiber.Ctx) error {
	claims, err := extractClaims(c)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid claims", nil)
	}

	var input struct {
		ChildID          uint   `json:"child_id"`
		AmountPence      int64  `json:"amount_pence"`
		ChoreAmountPence int64  `json:"chore_amount_pence"`
		GiftIDs          []uint `json:"gift_ids"`
		Method           string `json:"method"`
		Note             string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	if err := validation.ValidatePayoutInput(input.ChildID, input.AmountPence, input.ChoreAmountPence, input.Method); err != nil {
		return response.Domain(c, err)
	}

	payout, err := h.engine.Settle(c.Context(), settlement.SettleRequest{
		FamilyID:         claims.FamilyID,
		ChildID:          input.ChildID,
		OperatorID:       claims.UserID,
		AmountPence:      input.AmountPence,
		ChoreAmountPence: input.ChoreAmountPence,
		GiftIDs:          input.GiftIDs,
		Method:           input.Method,
		Note:             input.Note,
	})
	if err != nil {
		return response.Domain(c, err)
	}

	return response.Created(c, fiber.Map{"payout": payout})
}

// List handles GET /api/payouts?child_id=.
func (h *PayoutHandler) List(c *fiber.Ctx) error {
	claims, err := extractClaims(c)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid claims", nil)
	}

	var childID *uint
	if v := c.QueryInt("child_id", 0); v > 0 {
		id := uint(v)
		childID = &id
	}

	payouts, err := h.engine.ListPayouts(c.Context(), claims.FamilyID, childID)
	if err != nil {
		return response.Domain(c, err)
	}

	return response.Success(c, fiber.Map{"payouts": payouts})
}
