package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

// ContextUserIDKey işlemi yapan kullanıcının ID'si context'e bu anahtarla konur.
// BaseModel hook'ları CreatedBy/UpdatedBy alanlarını buradan doldurur.
const ContextUserIDKey contextKey = "user_id"

// WithUserID kullanıcı ID'sini context'e ekler.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, ContextUserIDKey, userID)
}

// UserIDFromContext context'teki kullanıcı ID'si; yoksa ok=false.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ContextUserIDKey).(uint)
	return id, ok && id != 0
}

// BaseModel tüm tablolarda ortak alanlar.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uint          `json:"-"`
	UpdatedBy *uint          `json:"-"`
	DeletedBy *uint          `json:"-"`
}

func userIDFromTx(tx *gorm.DB) (uint, bool) {
	if tx == nil || tx.Statement == nil || tx.Statement.Context == nil {
		return 0, false
	}
	return UserIDFromContext(tx.Statement.Context)
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if id, ok := userIDFromTx(tx); ok {
		b.CreatedBy = &id
		b.UpdatedBy = &id
	}
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if id, ok := userIDFromTx(tx); ok {
		b.UpdatedBy = &id
	}
	return nil
}
