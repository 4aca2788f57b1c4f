package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"choreblimey/internal/models"
)

func TestGiftRepository_FindPendingByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGiftRepository(db)

	g1 := &models.Gift{FamilyID: 1, ChildID: 10, MoneyPence: 300, Status: models.GiftStatusPending}
	g2 := &models.Gift{FamilyID: 1, ChildID: 10, MoneyPence: 200, Status: models.GiftStatusPending}
	otherChild := &models.Gift{FamilyID: 1, ChildID: 11, MoneyPence: 100, Status: models.GiftStatusPending}
	require.NoError(t, repo.Create(g1))
	require.NoError(t, repo.Create(g2))
	require.NoError(t, repo.Create(otherChild))

	gifts, err := repo.FindPendingByIDs(1, 10, []uint{g1.ID, g2.ID})
	require.NoError(t, err)
	assert.Len(t, gifts, 2)

	// A gift owned by another child does not resolve.
	gifts, err = repo.FindPendingByIDs(1, 10, []uint{g1.ID, otherChild.ID})
	require.NoError(t, err)
	assert.Len(t, gifts, 1)

	gifts, err = repo.FindPendingByIDs(1, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, gifts)
}

func TestGiftRepository_MarkSettled(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGiftRepository(db)

	g1 := &models.Gift{FamilyID: 1, ChildID: 10, MoneyPence: 300, Status: models.GiftStatusPending}
	require.NoError(t, repo.Create(g1))

	paidAt := time.Now().UTC()
	require.NoError(t, repo.MarkSettled([]uint{g1.ID}, 7, paidAt))

	got, err := repo.GetByID(g1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusPaidOut, got.Status)
	require.NotNil(t, got.PayoutID)
	assert.Equal(t, uint(7), *got.PayoutID)
	require.NotNil(t, got.PaidOutAt)

	// Already settled: the transition is one-way.
	err = repo.MarkSettled([]uint{g1.ID}, 8, paidAt)
	assert.ErrorIs(t, err, ErrGiftNotFound)

	got, err = repo.GetByID(g1.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), *got.PayoutID)
}

func TestGiftRepository_SumPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGiftRepository(db)

	require.NoError(t, repo.Create(&models.Gift{FamilyID: 1, ChildID: 10, MoneyPence: 300, Status: models.GiftStatusPending}))
	require.NoError(t, repo.Create(&models.Gift{FamilyID: 1, ChildID: 10, MoneyPence: 250, Status: models.GiftStatusPending}))
	require.NoError(t, repo.Create(&models.Gift{FamilyID: 1, ChildID: 10, MoneyPence: 100, Status: models.GiftStatusPaidOut}))

	total, err := repo.SumPending(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(550), total)

	total, err = repo.SumPending(1, 99)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPayoutRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPayoutRepository(db)

	chore := int64(200)
	require.NoError(t, repo.Create(&models.Payout{
		Reference: "ref-1", FamilyID: 1, ChildID: 10,
		AmountPence: 500, ChoreAmountPence: &chore, PaidBy: 2,
		Method: models.PayoutMethodCash, GiftIDs: models.IDList{4, 5},
	}))
	require.NoError(t, repo.Create(&models.Payout{
		Reference: "ref-2", FamilyID: 1, ChildID: 11,
		AmountPence: 300, PaidBy: 2, Method: models.PayoutMethodCash,
	}))

	all, err := repo.List(1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	child := uint(10)
	one, err := repo.List(1, &child)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "ref-1", one[0].Reference)
	assert.Equal(t, models.IDList{4, 5}, one[0].GiftIDs)
	require.NotNil(t, one[0].ChoreAmountPence)
	assert.Equal(t, int64(200), *one[0].ChoreAmountPence)
}
