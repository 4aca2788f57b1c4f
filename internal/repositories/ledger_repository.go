package repositories

import (
	"errors"

	"choreblimey/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository owns the append-only transactions table. Rows are
// never deleted; the single permitted update is AnnotateSettled flipping
// a gift credit's Meta.status to paid_out.
type LedgerRepository interface {
	Append(txn *models.Transaction) error
	GetByID(id uint) (*models.Transaction, error)
	// FindGiftCredit locates the relative-credit row recorded when the
	// gift was pledged.
	FindGiftCredit(walletID, giftID uint) (*models.Transaction, error)
	// AnnotateSettled marks a gift-credit row as folded into a payout.
	AnnotateSettled(transactionID, payoutID uint) error
	// SumForWallet reconstructs the spendable balance from the ledger:
	// effective credits minus debits. Pending gift credits are excluded.
	SumForWallet(walletID uint) (int64, error)
	ListByWallet(walletID uint, limit, offset int) ([]models.Transaction, error)
	WithTx(tx *gorm.DB) LedgerRepository
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: tx}
}

func (r *ledgerRepository) Append(txn *models.Transaction) error {
	if txn.AmountPence <= 0 {
		return ErrInvalidTransaction
	}
	if txn.Type != models.TransactionTypeCredit && txn.Type != models.TransactionTypeDebit {
		return ErrInvalidTransaction
	}
	return r.db.Create(txn).Error
}

func (r *ledgerRepository) GetByID(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *ledgerRepository) FindGiftCredit(walletID, giftID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.
		Where("wallet_id = ? AND gift_id = ? AND type = ?", walletID, giftID, models.TransactionTypeCredit).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *ledgerRepository) AnnotateSettled(transactionID, payoutID uint) error {
	txn, err := r.GetByID(transactionID)
	if err != nil {
		return err
	}
	if txn.Meta == nil {
		txn.Meta = models.JSON{}
	}
	txn.Meta["status"] = models.MetaStatusPaidOut
	txn.Meta["payoutId"] = payoutID
	return r.db.Model(&models.Transaction{}).
		Where("id = ?", transactionID).
		Update("meta", txn.Meta).Error
}

func (r *ledgerRepository) SumForWallet(walletID uint) (int64, error) {
	var rows []models.Transaction
	if err := r.db.Where("wallet_id = ?", walletID).Find(&rows).Error; err != nil {
		return 0, err
	}

	var total int64
	for i := range rows {
		txn := &rows[i]
		if txn.Pending() {
			continue
		}
		switch txn.Type {
		case models.TransactionTypeCredit:
			total += txn.AmountPence
		case models.TransactionTypeDebit:
			total -= txn.AmountPence
		}
	}
	return total, nil
}

func (r *ledgerRepository) ListByWallet(walletID uint, limit, offset int) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := r.db.
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
