package gift

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dErrors "choreblimey/internal/errors"
	"choreblimey/internal/models"
	"choreblimey/internal/repositories"
	walletsvc "choreblimey/internal/services/wallet"
)

type fixture struct {
	db      *gorm.DB
	ledger  repositories.LedgerRepository
	wallets walletsvc.Service
	service Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	ledger := repositories.NewLedgerRepository(db)
	wallets := walletsvc.NewService(db, repositories.NewWalletRepository(db), ledger, nil, nil)
	service := NewService(db, repositories.NewGiftRepository(db), ledger, wallets)
	return &fixture{db: db, ledger: ledger, wallets: wallets, service: service}
}

func TestService_CreateLeavesBalanceUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.service.Create(ctx, CreateRequest{
		FamilyID: 1, ChildID: 10, RelativeID: 90,
		RelativeName: "Grandma", MoneyPence: 300, Note: "birthday",
	})
	require.NoError(t, err)
	assert.Equal(t, models.GiftStatusPending, g.Status)

	// The wallet exists now but the pledge is not spendable.
	balance, err := f.wallets.GetBalance(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	wallet, err := f.wallets.GetWallet(ctx, 1, 10)
	require.NoError(t, err)

	credit, err := f.ledger.FindGiftCredit(wallet.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), credit.AmountPence)
	assert.Equal(t, models.SourceRelative, credit.Source)
	assert.True(t, credit.Pending())

	reconstructed, err := f.ledger.SumForWallet(wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reconstructed)
}

func TestService_CreateRejectsBadAmount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateRequest{
		FamilyID: 1, ChildID: 10, MoneyPence: 0,
	})
	assert.ErrorIs(t, err, dErrors.ErrInvalidAmount)
}

func TestService_FindPendingByIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g1, err := f.service.Create(ctx, CreateRequest{FamilyID: 1, ChildID: 10, MoneyPence: 300})
	require.NoError(t, err)
	g2, err := f.service.Create(ctx, CreateRequest{FamilyID: 1, ChildID: 10, MoneyPence: 200})
	require.NoError(t, err)

	gifts, err := f.service.FindPendingByIDs(ctx, 1, 10, []uint{g1.ID, g2.ID})
	require.NoError(t, err)
	assert.Len(t, gifts, 2)

	// An id that does not resolve to a pending gift of this child fails
	// the whole selection.
	_, err = f.service.FindPendingByIDs(ctx, 1, 10, []uint{g1.ID, 999})
	assert.ErrorIs(t, err, dErrors.ErrInvalidGiftSelection)

	_, err = f.service.FindPendingByIDs(ctx, 2, 10, []uint{g1.ID})
	assert.ErrorIs(t, err, dErrors.ErrInvalidGiftSelection)
}

func TestService_PendingTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateRequest{FamilyID: 1, ChildID: 10, MoneyPence: 300})
	require.NoError(t, err)
	_, err = f.service.Create(ctx, CreateRequest{FamilyID: 1, ChildID: 10, MoneyPence: 450})
	require.NoError(t, err)

	total, err := f.service.PendingTotal(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(750), total)
}
