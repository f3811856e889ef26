package models

import "gorm.io/datatypes"

// Page bilgilendirme sayfası; slug ile yayınlanır.
type Page struct {
	BaseModel
	CreatorUserID uint   `gorm:"index;not null"`
	IsEnabled     bool   `gorm:"default:true;index"`
	Slug          string `gorm:"type:varchar(160);uniqueIndex;not null"`

	Detail PageDetail `gorm:"foreignKey:PageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type PageDetail struct {
	BaseModel
	PageID uint `gorm:"uniqueIndex;not null"`

	Title       string                          `gorm:"type:varchar(255);not null"`
	Description string                          `gorm:"type:text"`
	Content     string                          `gorm:"type:text"` // ham HTML, olduğu gibi basılır
	Buttons     datatypes.JSONSlice[PageButton] `gorm:"type:jsonb"`
}

// PageSlugHistory sayfanın bıraktığı slug'lar. Yayınlanmış bir adres başka
// sayfaya geçmez; yalnızca aynı sayfa geri alabilir.
type PageSlugHistory struct {
	BaseModel
	PageID uint   `gorm:"index;not null"`
	Slug   string `gorm:"type:varchar(160);uniqueIndex;not null"`
}
