package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"choreblimey/internal/models"
)

func TestWalletRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)

	wallet := &models.Wallet{ChildID: 10, FamilyID: 1}
	require.NoError(t, repo.Create(wallet))
	assert.NotZero(t, wallet.ID)

	got, err := repo.GetByChild(1, 10)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, got.ID)
	assert.Equal(t, int64(0), got.BalancePence)

	_, err = repo.GetByChild(1, 99)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestWalletRepository_DuplicateChild(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)

	require.NoError(t, repo.Create(&models.Wallet{ChildID: 10, FamilyID: 1}))
	err := repo.Create(&models.Wallet{ChildID: 10, FamilyID: 1})
	assert.ErrorIs(t, err, ErrDuplicateWallet)
}

func TestWalletRepository_Increment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)

	wallet := &models.Wallet{ChildID: 10, FamilyID: 1}
	require.NoError(t, repo.Create(wallet))

	updated, err := repo.Increment(wallet.ID, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), updated.BalancePence)

	_, err = repo.Increment(9999, 100)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestWalletRepository_Decrement(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWalletRepository(db)

	wallet := &models.Wallet{ChildID: 10, FamilyID: 1}
	require.NoError(t, repo.Create(wallet))
	_, err := repo.Increment(wallet.ID, 500)
	require.NoError(t, err)

	updated, err := repo.Decrement(wallet.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(300), updated.BalancePence)

	// Driving the balance negative is rejected by the UPDATE guard and
	// leaves the row untouched.
	_, err = repo.Decrement(wallet.ID, 301)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	got, err := repo.GetByID(wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), got.BalancePence)

	_, err = repo.Decrement(9999, 100)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
