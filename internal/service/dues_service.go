package service

import (
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplierDues is the derived dues position of one supplier. DuesAmount is
// computed from live purchases, never read from the stored column.
type SupplierDues struct {
	SupplierID     uuid.UUID       `json:"supplier_id"`
	SupplierName   string          `json:"supplier_name"`
	InitialDues    decimal.Decimal `json:"initial_dues"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	DuesAmount     decimal.Decimal `json:"dues_amount"`
}

type AdjustDuesInput struct {
	SupplierID uuid.UUID       `json:"supplier_id" validate:"uuid_required"`
	Amount     decimal.Decimal `json:"amount" validate:"min=0"`
	Operation  string          `json:"operation" validate:"required,oneof=add subtract set"`
}

type DuesService interface {
	ComputeDues(supplierID uuid.UUID) (*SupplierDues, error)
	AdjustDues(in *AdjustDuesInput) (*model.Supplier, error)
}

type duesService struct {
	txr       TxRunner
	suppliers repository.SupplierRepository
	purchases repository.PurchaseRepository
}

func NewDuesService(txr TxRunner, suppliers repository.SupplierRepository, purchases repository.PurchaseRepository) DuesService {
	return &duesService{txr: txr, suppliers: suppliers, purchases: purchases}
}

// ComputeDues derives the supplier's outstanding balance:
// max(0, initial_dues + sum(purchase totals) - sum(paid amounts)),
// counting only non-deleted purchases.
func (s *duesService) ComputeDues(supplierID uuid.UUID) (*SupplierDues, error) {
	supplier, err := s.suppliers.FindByID(supplierID)
	if err != nil {
		return nil, asNotFound(err)
	}

	totals, err := s.purchases.TotalsBySupplier(supplierID)
	if err != nil {
		return nil, err
	}

	dues := supplier.DuesAmount.Add(totals.TotalPurchases).Sub(totals.TotalPaid)
	if dues.IsNegative() {
		dues = decimal.Zero
	}

	return &SupplierDues{
		SupplierID:     supplier.ID,
		SupplierName:   supplier.DisplayName(),
		InitialDues:    supplier.DuesAmount,
		TotalPurchases: totals.TotalPurchases,
		TotalPaid:      totals.TotalPaid,
		DuesAmount:     dues,
	}, nil
}

// AdjustDues mutates the stored dues column directly. Subtractions floor at
// zero in SQL so concurrent adjustments cannot drive the balance negative.
func (s *duesService) AdjustDues(in *AdjustDuesInput) (*model.Supplier, error) {
	if fields := validator.ValidateStruct(in); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if _, err := s.suppliers.FindByID(in.SupplierID); err != nil {
		return nil, asNotFound(err)
	}

	err := s.txr.Do(func(tx *gorm.DB) error {
		switch in.Operation {
		case "add":
			return s.suppliers.AddDues(tx, in.SupplierID, in.Amount)
		case "subtract":
			return s.suppliers.AddDues(tx, in.SupplierID, in.Amount.Neg())
		default:
			return s.suppliers.SetDues(tx, in.SupplierID, in.Amount)
		}
	})
	if err != nil {
		return nil, err
	}

	return s.suppliers.FindByID(in.SupplierID)
}
