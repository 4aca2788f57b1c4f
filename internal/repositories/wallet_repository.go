package repositories

import (
	"errors"

	"choreblimey/internal/models"

	"gorm.io/gorm"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrGiftNotFound        = errors.New("gift not found")
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// WalletRepository owns the wallets table. Balance changes go through
// Increment/Decrement only, which adjust the row in place so two
// concurrent writers cannot lose an update.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByID(id uint) (*models.Wallet, error)
	GetByChild(familyID, childID uint) (*models.Wallet, error)
	// GetByIDLocked takes a row lock; call inside a transaction.
	GetByIDLocked(id uint) (*models.Wallet, error)
	// Increment adds amountPence to the balance and returns the updated row.
	Increment(id uint, amountPence int64) (*models.Wallet, error)
	// Decrement subtracts amountPence, failing with ErrInsufficientFunds
	// if the balance would go negative. The guard is part of the UPDATE
	// itself, not a separate read.
	Decrement(id uint, amountPence int64) (*models.Wallet, error)
	// WithTx returns a copy of the repository bound to tx so callers can
	// compose wallet writes with ledger, gift and payout writes in one
	// database transaction.
	WithTx(tx *gorm.DB) WalletRepository
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) WithTx(tx *gorm.DB) WalletRepository {
	return &walletRepository{db: tx}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	if err := r.db.Create(wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateWallet
		}
		return err
	}
	return nil
}

func (r *walletRepository) GetByID(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) GetByChild(familyID, childID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Where("family_id = ? AND child_id = ?", familyID, childID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) GetByIDLocked(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := lockForUpdate(r.db).First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) Increment(id uint, amountPence int64) (*models.Wallet, error) {
	result := r.db.Model(&models.Wallet{}).
		Where("id = ?", id).
		Update("balance_pence", gorm.Expr("balance_pence + ?", amountPence))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrWalletNotFound
	}
	return r.GetByID(id)
}

func (r *walletRepository) Decrement(id uint, amountPence int64) (*models.Wallet, error) {
	result := r.db.Model(&models.Wallet{}).
		Where("id = ? AND balance_pence >= ?", id, amountPence).
		Update("balance_pence", gorm.Expr("balance_pence - ?", amountPence))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(id); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientFunds
	}
	return r.GetByID(id)
}
