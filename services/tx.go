package services

import (
	"context"

	"helpdesk.link/repositories"

	"gorm.io/gorm"
)

// txRunner fn'i tek transaction içinde çalıştırır; tx repository'lere ctx ile geçer.
type txRunner func(ctx context.Context, fn func(txCtx context.Context) error) error

func gormTx(db *gorm.DB) txRunner {
	return func(ctx context.Context, fn func(txCtx context.Context) error) error {
		return db.Transaction(func(tx *gorm.DB) error {
			return fn(repositories.WithTx(ctx, tx))
		})
	}
}
