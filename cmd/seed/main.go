// Package main seeds a demo family for local development: a wallet with
// some chore earnings and a couple of pending gifts ready to settle.
package main

import (
	"context"

	"choreblimey/internal/config"
	"choreblimey/internal/logger"
	"choreblimey/internal/models"
	"choreblimey/internal/repositories"
	"choreblimey/internal/services/gift"
	walletsvc "choreblimey/internal/services/wallet"
)

func main() {
	defer logger.Sync()

	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}

	db := repositories.DB
	walletRepo := repositories.NewWalletRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	giftRepo := repositories.NewGiftRepository(db)

	walletService := walletsvc.NewService(db, walletRepo, ledgerRepo, nil, nil)
	giftService := gift.NewService(db, giftRepo, ledgerRepo, walletService)

	ctx := context.Background()
	familyID := uint(config.GetIntEnv("SEED_FAMILY_ID", 1))
	childID := uint(config.GetIntEnv("SEED_CHILD_ID", 1))

	wallet, err := walletService.GetOrCreate(ctx, familyID, childID)
	if err != nil {
		logger.Fatal("failed to create wallet", "error", err)
	}

	if _, err := walletService.Credit(ctx, walletsvc.OperationRequest{
		WalletID:    wallet.ID,
		AmountPence: 750,
		Source:      models.SourceSystem,
		Meta:        models.JSON{"note": "seed: chore earnings"},
	}); err != nil {
		logger.Fatal("failed to credit wallet", "error", err)
	}

	for _, g := range []gift.CreateRequest{
		{FamilyID: familyID, ChildID: childID, RelativeID: 90, RelativeName: "Grandma", MoneyPence: 500, Note: "birthday"},
		{FamilyID: familyID, ChildID: childID, RelativeID: 91, RelativeName: "Uncle Pete", MoneyPence: 300},
	} {
		if _, err := giftService.Create(ctx, g); err != nil {
			logger.Fatal("failed to create gift", "error", err)
		}
	}

	logger.Info("seeded demo family", "familyId", familyID, "childId", childID)
}
