package models

import (
	"crypto/rand"
	"encoding/hex"

	"gorm.io/gorm"
)

// LinkKeyLength public anahtarın karakter uzunluğu.
const LinkKeyLength = 12

// Link benzersiz bir 'Key'i bir hedef kayda bağlar. Formların publicUrl değeri
// bu anahtardır. Soft delete edilen satırlar unique index'te kaldığı için bir
// anahtar asla tekrar kullanılmaz.
type Link struct {
	BaseModel
	Key           string `gorm:"type:varchar(32);uniqueIndex;not null"`
	TypeID        uint   `gorm:"not null;index"`
	TargetID      uint   `gorm:"not null;index:idx_link_target"`
	CreatorUserID uint   `gorm:"index;not null"`

	Type    Type `gorm:"foreignKey:TypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Creator User `gorm:"foreignKey:CreatorUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

// NewLinkKey rastgele hex anahtar üretir.
func NewLinkKey() (string, error) {
	b := make([]byte, LinkKeyLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// BeforeCreate Key boşsa üretir.
func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if err := l.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if l.Key != "" {
		return nil
	}
	key, err := NewLinkKey()
	if err != nil {
		return err
	}
	l.Key = key
	return nil
}
