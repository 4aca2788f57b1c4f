package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate applies a row lock when the dialect supports it. SQLite
// (used in tests) serialises writers itself and rejects FOR UPDATE.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
