package service

import (
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/pricing"
	"go-pos-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseLineInput describes one product being purchased. Tax and profit
// amounts are derived server-side from the rates; per-unit and total order
// amounts are trusted from the payload and never re-derived.
type PurchaseLineInput struct {
	ProductID        uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity         int             `json:"quantity" validate:"required,min=1"`
	PurchasePrice    decimal.Decimal `json:"purchase_price" validate:"min=0"`
	InclusiveTaxRate decimal.Decimal `json:"inclusive_tax_rate" validate:"min=0,max=100"`
	ExclusiveTaxRate decimal.Decimal `json:"exclusive_tax_rate" validate:"min=0,max=100"`
	ProfitMargin     decimal.Decimal `json:"profit_margin" validate:"min=0,max=100"`
	OneItemAmount    decimal.Decimal `json:"one_item_amount" validate:"min=0"`
	TotalOrderAmount decimal.Decimal `json:"total_order_amount" validate:"min=0"`
	BatchNumber      string          `json:"batch_number"`
	ExpiryDate       string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	InvoiceNumber    string          `json:"invoice_number"`
}

// ReceiveLineInput is the deferred-receiving variant: tax and profit amounts
// are supplied directly instead of being recomputed from rates.
type ReceiveLineInput struct {
	ProductID        uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity         int             `json:"quantity" validate:"required,min=1"`
	PurchasePrice    decimal.Decimal `json:"purchase_price" validate:"min=0"`
	TaxAmount        decimal.Decimal `json:"tax_amount" validate:"min=0"`
	ProfitAmount     decimal.Decimal `json:"profit_amount" validate:"min=0"`
	OneItemAmount    decimal.Decimal `json:"one_item_amount" validate:"min=0"`
	TotalOrderAmount decimal.Decimal `json:"total_order_amount" validate:"min=0"`
	BatchNumber      string          `json:"batch_number"`
	ExpiryDate       string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	InvoiceNumber    string          `json:"invoice_number"`
}

// LotWriter materializes inventory lots from purchase lines. One lot per
// line, tagged as purchase provenance, supplier and location inherited from
// the parent purchase. It maintains no stock counters; stock levels are an
// aggregation over active lots at read time.
type LotWriter struct {
	lots repository.InventoryRepository
}

func NewLotWriter(lots repository.InventoryRepository) *LotWriter {
	return &LotWriter{lots: lots}
}

// WriteFromRates persists lots for purchase creation, deriving tax and
// profit amounts from the line rates.
func (w *LotWriter) WriteFromRates(tx *gorm.DB, purchase *model.Purchase, lines []PurchaseLineInput) ([]model.InventoryLot, error) {
	lots := make([]model.InventoryLot, 0, len(lines))
	for _, line := range lines {
		amounts := pricing.Calculate(line.PurchasePrice, line.InclusiveTaxRate, line.ExclusiveTaxRate, line.ProfitMargin)
		lots = append(lots, model.InventoryLot{
			ProductID:          line.ProductID,
			PurchaseID:         purchase.ID,
			SupplierID:         purchase.SupplierID,
			BusinessLocationID: purchase.BusinessLocationID,
			Quantity:           line.Quantity,
			PurchasePrice:      line.PurchasePrice,
			SellingPrice:       line.OneItemAmount,
			InclusiveTaxRate:   line.InclusiveTaxRate,
			ExclusiveTaxRate:   line.ExclusiveTaxRate,
			ProfitMargin:       line.ProfitMargin,
			TaxAmount:          amounts.TotalTax,
			ProfitAmount:       amounts.Profit,
			OneItemAmount:      line.OneItemAmount,
			TotalOrderAmount:   line.TotalOrderAmount,
			BatchNumber:        line.BatchNumber,
			ExpiryDate:         parseDate(line.ExpiryDate),
			InvoiceNumber:      line.InvoiceNumber,
			InventoryType:      model.InventoryPurchase,
			IsActive:           true,
		})
	}
	if err := w.lots.CreateLots(tx, lots); err != nil {
		return nil, err
	}
	return lots, nil
}

// WriteFromAmounts persists lots for deferred stock receiving, taking tax
// and profit amounts as given.
func (w *LotWriter) WriteFromAmounts(tx *gorm.DB, purchase *model.Purchase, lines []ReceiveLineInput) ([]model.InventoryLot, error) {
	lots := make([]model.InventoryLot, 0, len(lines))
	for _, line := range lines {
		lots = append(lots, model.InventoryLot{
			ProductID:          line.ProductID,
			PurchaseID:         purchase.ID,
			SupplierID:         purchase.SupplierID,
			BusinessLocationID: purchase.BusinessLocationID,
			Quantity:           line.Quantity,
			PurchasePrice:      line.PurchasePrice,
			SellingPrice:       line.OneItemAmount,
			TaxAmount:          line.TaxAmount,
			ProfitAmount:       line.ProfitAmount,
			OneItemAmount:      line.OneItemAmount,
			TotalOrderAmount:   line.TotalOrderAmount,
			BatchNumber:        line.BatchNumber,
			ExpiryDate:         parseDate(line.ExpiryDate),
			InvoiceNumber:      line.InvoiceNumber,
			InventoryType:      model.InventoryPurchase,
			IsActive:           true,
		})
	}
	if err := w.lots.CreateLots(tx, lots); err != nil {
		return nil, err
	}
	return lots, nil
}

// parseDate interprets an optional YYYY-MM-DD string; format errors are
// caught by validation before this runs.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
