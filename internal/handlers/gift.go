package handlers

import (
	"github.com/gofiber/fiber/v2"

	"choreblimey/internal/services/gift"
	"choreblimey/internal/utils/response"
	"choreblimey/internal/validation"
)

type GiftHandler struct {
	giftService gift.Service
}

func NewGiftHandler(giftService gift.Service) *GiftHandler {
	return &GiftHandler{giftService: giftService}
}

// Create handles POST /api/gifts — a relative pledging money for a child.
func (h *GiftHandler) Create(c *fiber.Ctx) error {
	claims, err := extractClaims(c)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid claims", nil)
	}

	var input struct {
		ChildID      uint   `json:"child_id"`
		MoneyPence   int64  `json:"money_pence"`
		RelativeName string `json:"relative_name"`
		Note         string `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	if err := validation.ValidateGiftInput(input.ChildID, input.MoneyPence); err != nil {
		return response.Domain(c, err)
	}

	g, err := h.giftService.Create(c.Context(), gift.CreateRequest{
		FamilyID:     claims.FamilyID,
		ChildID:      input.ChildID,
		RelativeID:   claims.UserID,
		RelativeName: input.RelativeName,
		MoneyPence:   input.MoneyPence,
		Note:         input.Note,
	})
	if err != nil {
		return response.Domain(c, err)
	}

	return response.Created(c, fiber.Map{"gift": g})
}

// ListPending handles GET /api/gifts/pending/:childId.
func (h *GiftHandler) ListPending(c *fiber.Ctx) error {
	claims, err := extractClaims(c)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid claims", nil)
	}

	childID, err := c.ParamsInt("childId")
	if err != nil || childID <= 0 {
		return response.BadRequest(c, "invalid child id")
	}

	gifts, err := h.giftService.ListPending(c.Context(), claims.FamilyID, uint(childID))
	if err != nil {
		return response.Domain(c, err)
	}

	total, err := h.giftService.PendingTotal(c.Context(), claims.FamilyID, uint(childID))
	if err != nil {
		return response.Domain(c, err)
	}

	return response.Success(c, fiber.Map{
		"gifts":      gifts,
		"totalPence": total,
	})
}
