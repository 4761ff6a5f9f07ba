package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lendease/internal/core/domain"
)

// NewRepositories builds a repository bundle over one gorm handle,
// which may be a transaction.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:     NewUserRepository(db),
		Clients:   NewClientRepository(db),
		Companies: NewCompanyRepository(db),
	}
}

// gormTxManager implements TxManager over gorm transactions
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

// WithinTx runs fn against transaction-scoped repositories. Any error from
// fn rolls the whole transaction back, so a multi-row write either lands
// completely or not at all.
func (m *gormTxManager) WithinTx(ctx context.Context, fn func(r Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// storeErr classifies a gorm error. Record-not-found and duplicate-key pass
// through untouched so callers can match on them; anything else is a
// transient store failure the caller may retry whole.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
