package repositories

import (
	"errors"
	"time"

	"choreblimey/internal/models"

	"gorm.io/gorm"
)

// GiftRepository owns the gifts table. A gift transitions pending ->
// paid_out exactly once, via MarkSettled inside a settlement transaction.
type GiftRepository interface {
	Create(gift *models.Gift) error
	GetByID(id uint) (*models.Gift, error)
	// FindPendingByIDs returns the pending gifts among ids that belong to
	// the child. Callers compare the returned count against len(ids) to
	// detect gifts that are settled, missing, or owned elsewhere.
	FindPendingByIDs(familyID, childID uint, ids []uint) ([]models.Gift, error)
	// FindPendingByIDsLocked is FindPendingByIDs with row locks taken;
	// call inside a transaction.
	FindPendingByIDsLocked(familyID, childID uint, ids []uint) ([]models.Gift, error)
	// MarkSettled stamps the gifts with the payout and flips their status.
	MarkSettled(ids []uint, payoutID uint, paidOutAt time.Time) error
	ListPending(familyID, childID uint) ([]models.Gift, error)
	SumPending(familyID, childID uint) (int64, error)
	WithTx(tx *gorm.DB) GiftRepository
}

type giftRepository struct {
	db *gorm.DB
}

func NewGiftRepository(db *gorm.DB) GiftRepository {
	return &giftRepository{db: db}
}

func (r *giftRepository) WithTx(tx *gorm.DB) GiftRepository {
	return &giftRepository{db: tx}
}

func (r *giftRepository) Create(gift *models.Gift) error {
	return r.db.Create(gift).Error
}

func (r *giftRepository) GetByID(id uint) (*models.Gift, error) {
	var gift models.Gift
	if err := r.db.First(&gift, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGiftNotFound
		}
		return nil, err
	}
	return &gift, nil
}

func (r *giftRepository) FindPendingByIDs(familyID, childID uint, ids []uint) ([]models.Gift, error) {
	return r.findPending(r.db, familyID, childID, ids)
}

func (r *giftRepository) FindPendingByIDsLocked(familyID, childID uint, ids []uint) ([]models.Gift, error) {
	return r.findPending(lockForUpdate(r.db), familyID, childID, ids)
}

func (r *giftRepository) findPending(db *gorm.DB, familyID, childID uint, ids []uint) ([]models.Gift, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var gifts []models.Gift
	err := db.
		Where("family_id = ? AND child_id = ? AND status = ? AND id IN ?",
			familyID, childID, models.GiftStatusPending, ids).
		Find(&gifts).Error
	if err != nil {
		return nil, err
	}
	return gifts, nil
}

func (r *giftRepository) MarkSettled(ids []uint, payoutID uint, paidOutAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	result := r.db.Model(&models.Gift{}).
		Where("id IN ? AND status = ?", ids, models.GiftStatusPending).
		Updates(map[string]interface{}{
			"status":      models.GiftStatusPaidOut,
			"paid_out_at": paidOutAt,
			"payout_id":   payoutID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != int64(len(ids)) {
		return ErrGiftNotFound
	}
	return nil
}

func (r *giftRepository) ListPending(familyID, childID uint) ([]models.Gift, error) {
	var gifts []models.Gift
	err := r.db.
		Where("family_id = ? AND child_id = ? AND status = ?",
			familyID, childID, models.GiftStatusPending).
		Order("created_at ASC").
		Find(&gifts).Error
	if err != nil {
		return nil, err
	}
	return gifts, nil
}

func (r *giftRepository) SumPending(familyID, childID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.Gift{}).
		Where("family_id = ? AND child_id = ? AND status = ?",
			familyID, childID, models.GiftStatusPending).
		Select("COALESCE(SUM(money_pence), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
