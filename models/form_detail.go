package models

import (
	"gorm.io/datatypes"
)

// FormDetail formun düzenlenebilir içeriği.
type FormDetail struct {
	BaseModel
	FormID uint `gorm:"uniqueIndex;not null"`

	Name          string                         `gorm:"type:varchar(255);not null"`
	Description   string                         `gorm:"type:text"`
	Fields        datatypes.JSONSlice[FormField] `gorm:"type:jsonb;not null"`
	LinkedUserID  *uint                          `gorm:"index"`
	LinkedGroupID *uint                          `gorm:"index"`
	PasswordHash  string                         `gorm:"type:varchar(255)"`
}

func (d *FormDetail) Linkage() Linkage {
	return LinkageFromColumns(d.LinkedUserID, d.LinkedGroupID)
}

// SetLinkage iki kolonu birlikte yazar.
func (d *FormDetail) SetLinkage(l Linkage) {
	d.LinkedUserID, d.LinkedGroupID = l.Columns()
}
