package model

// Product is reference data for purchasable items. Stock is not stored here;
// it is derived by summing active inventory lots per product.
type Product struct {
	BaseModel
	ProductSKU           string `gorm:"type:varchar(50);uniqueIndex;not null" json:"product_sku" validate:"required"`
	ProductName          string `gorm:"type:varchar(255);not null" json:"product_name" validate:"required"`
	Unit                 string `gorm:"type:varchar(20)" json:"unit"`
	DefaultAlertQuantity int    `gorm:"default:0" json:"default_alert_quantity"`
	IsActive             bool   `gorm:"default:true" json:"is_active"`
}
