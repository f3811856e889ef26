package repositories

import (
	"context"
	"errors"

	"helpdesk.link/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound kayıt bulunamadığında tüm repository'ler bu hatayı döndürür.
var ErrNotFound = errors.New("kayıt bulunamadı")

type contextKey string

const contextTxKey contextKey = "tx"

// WithTx transaction'ı context'e koyar; getDB bu transaction'ı kullanır.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, contextTxKey, tx)
}

func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(contextTxKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// IBaseRepository basit tablolar için ortak okuma işlemleri.
type IBaseRepository[T any] interface {
	FindByID(ctx context.Context, id uint) (*T, error)
}

type BaseRepository[T any] struct {
	db *gorm.DB
}

func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db}
}

func (r *BaseRepository[T]) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var entity T
	if err := r.getDB(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("BaseRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &entity, nil
}

var _ IBaseRepository[struct{}] = (*BaseRepository[struct{}])(nil)
