package model

// BusinessLocation is a shop or warehouse stock is received into
type BusinessLocation struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address  string `gorm:"type:text" json:"address"`
	City     string `gorm:"type:varchar(255)" json:"city"`
	Phone    string `gorm:"type:varchar(50)" json:"phone"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
