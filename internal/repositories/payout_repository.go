package repositories

import (
	"errors"

	"choreblimey/internal/models"

	"gorm.io/gorm"
)

// PayoutRepository owns the payouts table: insert and read only.
type PayoutRepository interface {
	Create(payout *models.Payout) error
	GetByID(id uint) (*models.Payout, error)
	// List returns a family's payouts, optionally narrowed to one child,
	// newest first.
	List(familyID uint, childID *uint) ([]models.Payout, error)
	WithTx(tx *gorm.DB) PayoutRepository
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) WithTx(tx *gorm.DB) PayoutRepository {
	return &payoutRepository{db: tx}
}

func (r *payoutRepository) Create(payout *models.Payout) error {
	return r.db.Create(payout).Error
}

func (r *payoutRepository) GetByID(id uint) (*models.Payout, error) {
	var payout models.Payout
	if err := r.db.First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) List(familyID uint, childID *uint) ([]models.Payout, error) {
	query := r.db.Where("family_id = ?", familyID)
	if childID != nil {
		query = query.Where("child_id = ?", *childID)
	}

	var payouts []models.Payout
	if err := query.Order("created_at DESC").Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}
