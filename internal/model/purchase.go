package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchaseOrdered  PurchaseStatus = "ordered"
	PurchaseReceived PurchaseStatus = "received"
)

func (s PurchaseStatus) IsValid() bool {
	return s == PurchaseOrdered || s == PurchaseReceived
}

type PaymentStatus string

const (
	PaymentPending        PaymentStatus = "pending"
	PaymentPaid           PaymentStatus = "paid"
	PaymentPartial        PaymentStatus = "partial"
	PaymentAllDuesCleared PaymentStatus = "all_dues_cleared"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentPartial, PaymentAllDuesCleared:
		return true
	}
	return false
}

// OwesSupplier reports whether this payment status leaves an open balance
// that the legacy stored dues field should be bumped by.
func (s PaymentStatus) OwesSupplier() bool {
	return s == PaymentPending || s == PaymentPartial
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentCheck        PaymentMethod = "check"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// Purchase is a purchase order header. Inventory lots exist for it if and
// only if Status has reached received; the transition ordered -> received is
// one way.
type Purchase struct {
	BaseModel
	ReferenceNo        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"reference_no"`
	SupplierID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	BusinessLocationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_location_id"`
	CreatedByID        *uuid.UUID      `gorm:"type:uuid" json:"created_by_id,omitempty"`
	PurchaseDate       time.Time       `gorm:"type:date;not null" json:"purchase_date"`
	PurchaseNote       string          `gorm:"type:text" json:"purchase_note"`
	Document           string          `gorm:"type:varchar(255)" json:"document"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	PaidAmount         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	DueAmount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"due_amount"`
	PaymentStatus      PaymentStatus   `gorm:"type:varchar(20);not null" json:"payment_status"`
	PaymentMethod      PaymentMethod   `gorm:"type:varchar(20)" json:"payment_method"`
	Status             PurchaseStatus  `gorm:"type:varchar(20);not null;default:'ordered'" json:"status"`
	IsActive           bool            `gorm:"default:true" json:"is_active"`

	Supplier         *Supplier         `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	BusinessLocation *BusinessLocation `gorm:"foreignKey:BusinessLocationID" json:"business_location,omitempty"`
	CreatedByUser    *User             `gorm:"foreignKey:CreatedByID" json:"created_by_user,omitempty"`
	InventoryLots    []InventoryLot    `gorm:"foreignKey:PurchaseID" json:"inventory_lots,omitempty"`
}

// ReferencePrefix is the leading tag of generated purchase reference numbers
const ReferencePrefix = "PUR"

// IsFullyPaid reports whether the paid amount covers the total
func (p *Purchase) IsFullyPaid() bool {
	return p.PaidAmount.GreaterThanOrEqual(p.TotalAmount)
}
