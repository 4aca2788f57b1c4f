// Package notification fans settlement results out to family members.
// Delivery is best-effort; callers never roll back on a failed notify.
package notification

import (
	"context"

	"choreblimey/internal/logger"
	"choreblimey/internal/models"
)

// Service is a minimal notification fan-out implementation.
type Service struct{}

// NewService creates a new notification service.
func NewService() *Service { return &Service{} }

// PayoutCompleted announces a finished settlement to the family.
func (s *Service) PayoutCompleted(ctx context.Context, payout *models.Payout) error {
	logger.Info("payout completed",
		"familyId", payout.FamilyID,
		"childId", payout.ChildID,
		"payoutId", payout.ID,
		"amountPence", payout.AmountPence,
		"gifts", len(payout.GiftIDs),
	)
	return nil
}
