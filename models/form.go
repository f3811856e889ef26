package models

// Form operatörün yayınladığı veri toplama formunun ana kaydı.
type Form struct {
	BaseModel
	LinkID        uint `gorm:"uniqueIndex;not null"`
	CreatorUserID uint `gorm:"index;not null"`
	IsEnabled     bool `gorm:"default:true;index"`

	Link   Link       `gorm:"foreignKey:LinkID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Detail FormDetail `gorm:"foreignKey:FormID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// PublicURL formun dışarıya açık anahtarı (Link.Key).
func (f *Form) PublicURL() string {
	return f.Link.Key
}
