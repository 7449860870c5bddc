package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryType tags the provenance of a lot. Purchase receiving always
// writes "purchase"; other values are reserved for adjustments.
type InventoryType string

const (
	InventoryPurchase InventoryType = "purchase"
)

// InventoryLot is one immutable batch of stock created when a purchase is
// received. Lots are owned by the purchase that created them; outside the
// receiving workflow only the administrative correction endpoint may touch
// them. SoldQuantity is reserved for the future sales workflow and stays
// zero today.
type InventoryLot struct {
	BaseModel
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	PurchaseID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_id"`
	SupplierID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	BusinessLocationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_location_id"`
	Quantity           int             `gorm:"not null" json:"quantity"`
	SoldQuantity       int             `gorm:"default:0" json:"sold_quantity"`
	PurchasePrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
	SellingPrice       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"selling_price"`
	InclusiveTaxRate   decimal.Decimal `gorm:"type:decimal(8,4);default:0" json:"inclusive_tax_rate"`
	ExclusiveTaxRate   decimal.Decimal `gorm:"type:decimal(8,4);default:0" json:"exclusive_tax_rate"`
	ProfitMargin       decimal.Decimal `gorm:"type:decimal(8,4);default:0" json:"profit_margin"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	ProfitAmount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"profit_amount"`
	OneItemAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"one_item_amount"`
	TotalOrderAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_order_amount"`
	BatchNumber        string          `gorm:"type:varchar(255)" json:"batch_number"`
	ExpiryDate         *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
	InvoiceNumber      string          `gorm:"type:varchar(255)" json:"invoice_number"`
	InventoryType      InventoryType   `gorm:"type:varchar(20);not null;default:'purchase'" json:"inventory_type"`
	Notes              string          `gorm:"type:text" json:"notes"`
	IsActive           bool            `gorm:"default:true" json:"is_active"`

	Product          *Product          `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Supplier         *Supplier         `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	BusinessLocation *BusinessLocation `gorm:"foreignKey:BusinessLocationID" json:"business_location,omitempty"`
	Purchase         *Purchase         `gorm:"foreignKey:PurchaseID" json:"purchase,omitempty"`
}

// TableName keeps the original table naming for lots
func (InventoryLot) TableName() string {
	return "product_inventory"
}
