package service

import (
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LotsPerPage is the fixed page size of the inventory lot listing
const LotsPerPage = 20

type UpdateLotInput struct {
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"omitempty,min=0"`
	BatchNumber  *string          `json:"batch_number"`
	ExpiryDate   *string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        *string          `json:"notes"`
	IsActive     *bool            `json:"is_active"`
}

// LotList is one page of the filtered lot listing
type LotList struct {
	Items   []model.InventoryLot `json:"items"`
	Page    int                  `json:"page"`
	PerPage int                  `json:"per_page"`
	Total   int64                `json:"total"`
}

type InventoryService interface {
	List(filter repository.LotFilter, page int) (*LotList, error)
	GetByID(id uuid.UUID) (*model.InventoryLot, error)
	Update(id uuid.UUID, in *UpdateLotInput) (*model.InventoryLot, error)
	StockLevels(locationID *uuid.UUID) ([]repository.StockLevel, error)
}

type inventoryService struct {
	txr  TxRunner
	lots repository.InventoryRepository
}

func NewInventoryService(txr TxRunner, lots repository.InventoryRepository) InventoryService {
	return &inventoryService{txr: txr, lots: lots}
}

func (s *inventoryService) List(filter repository.LotFilter, page int) (*LotList, error) {
	if page < 1 {
		page = 1
	}
	items, total, err := s.lots.List(filter, page, LotsPerPage)
	if err != nil {
		return nil, err
	}
	return &LotList{Items: items, Page: page, PerPage: LotsPerPage, Total: total}, nil
}

func (s *inventoryService) GetByID(id uuid.UUID) (*model.InventoryLot, error) {
	lot, err := s.lots.FindByID(id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return lot, nil
}

// Update patches the mutable fields of a lot. Quantity and cost figures are
// frozen at receive time and cannot be edited here.
func (s *inventoryService) Update(id uuid.UUID, in *UpdateLotInput) (*model.InventoryLot, error) {
	if fields := validator.ValidateStruct(in); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if _, err := s.lots.FindByID(id); err != nil {
		return nil, asNotFound(err)
	}

	updates := map[string]interface{}{}
	if in.SellingPrice != nil {
		updates["selling_price"] = *in.SellingPrice
	}
	if in.BatchNumber != nil {
		updates["batch_number"] = *in.BatchNumber
	}
	if in.ExpiryDate != nil {
		updates["expiry_date"] = parseDate(*in.ExpiryDate)
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return s.lots.FindByID(id)
	}

	err := s.txr.Do(func(tx *gorm.DB) error {
		return s.lots.Updates(tx, id, updates)
	})
	if err != nil {
		return nil, err
	}

	return s.lots.FindByID(id)
}

func (s *inventoryService) StockLevels(locationID *uuid.UUID) ([]repository.StockLevel, error) {
	return s.lots.StockLevels(locationID)
}
