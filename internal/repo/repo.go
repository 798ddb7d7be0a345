package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/sweet_shop/internal/db"
	"github.com/Skotchmaster/sweet_shop/internal/domain"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(gdb *gorm.DB) *GormRepo {
	return &GormRepo{DB: gdb}
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect has it. SQLite
// takes a database-wide write lock instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if db.IsSQLite(tx) {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translate maps driver errors onto the domain sentinels.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, what)
	default:
		return err
	}
}

func affected(res *gorm.DB, what string) error {
	if res.Error != nil {
		return translate(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return nil
}
