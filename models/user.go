package models

// User sadece lookup ve onay yetkisi için tutulur; kimlik doğrulama dış sistemdedir.
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(150);not null" json:"name"`
	Email    string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	Role     string `gorm:"type:varchar(30);not null;default:'operator'" json:"role"`
	IsSystem bool   `gorm:"default:false" json:"isSystem"`
	Status   bool   `gorm:"default:true;index" json:"status"`
}

const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Group onay akışında bağlanabilen kullanıcı grubu.
type Group struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Members []User `gorm:"many2many:group_members;" json:"-"`
}

// LookupItem builder'daki bağlama kontrolleri için id + görünen ad.
type LookupItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
