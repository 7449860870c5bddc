package repository

import (
	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LotFilter narrows the inventory lot list query
type LotFilter struct {
	ProductID          *uuid.UUID
	SupplierID         *uuid.UUID
	BusinessLocationID *uuid.UUID
	InventoryType      string
	IsActive           *bool
	Search             string // matches product name or SKU
}

// StockLevel is the per-product aggregation over active lots
type StockLevel struct {
	ProductID        uuid.UUID       `json:"product_id"`
	TotalQuantity    int64           `json:"total_quantity"`
	AvgPurchasePrice decimal.Decimal `json:"avg_purchase_price"`
	AvgSellingPrice  decimal.Decimal `json:"avg_selling_price"`
}

type InventoryRepository interface {
	CreateLots(tx *gorm.DB, lots []model.InventoryLot) error
	FindByID(id uuid.UUID) (*model.InventoryLot, error)
	FindByPurchase(tx *gorm.DB, purchaseID uuid.UUID) ([]model.InventoryLot, error)
	List(filter LotFilter, page, perPage int) ([]model.InventoryLot, int64, error)
	Updates(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	DeleteByPurchase(tx *gorm.DB, purchaseID uuid.UUID) error
	StockLevels(locationID *uuid.UUID) ([]StockLevel, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *inventoryRepo) CreateLots(tx *gorm.DB, lots []model.InventoryLot) error {
	if len(lots) == 0 {
		return nil
	}
	return r.conn(tx).Create(&lots).Error
}

func (r *inventoryRepo) FindByID(id uuid.UUID) (*model.InventoryLot, error) {
	var lot model.InventoryLot
	err := r.db.
		Preload("Product").
		Preload("Supplier").
		Preload("BusinessLocation").
		Preload("Purchase").
		First(&lot, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *inventoryRepo) FindByPurchase(tx *gorm.DB, purchaseID uuid.UUID) ([]model.InventoryLot, error) {
	var lots []model.InventoryLot
	err := r.conn(tx).Where("purchase_id = ?", purchaseID).Find(&lots).Error
	return lots, err
}

func (r *inventoryRepo) List(filter LotFilter, page, perPage int) ([]model.InventoryLot, int64, error) {
	query := r.db.Model(&model.InventoryLot{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.BusinessLocationID != nil {
		query = query.Where("business_location_id = ?", *filter.BusinessLocationID)
	}
	if filter.InventoryType != "" {
		query = query.Where("inventory_type = ?", filter.InventoryType)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		query = query.Joins("JOIN products ON products.id = product_inventory.product_id").
			Where("products.product_name ILIKE ? OR products.product_sku ILIKE ?",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lots []model.InventoryLot
	err := query.
		Preload("Product").
		Preload("Supplier").
		Preload("BusinessLocation").
		Preload("Purchase").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&lots).Error
	return lots, total, err
}

func (r *inventoryRepo) Updates(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return r.conn(tx).Model(&model.InventoryLot{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *inventoryRepo) DeleteByPurchase(tx *gorm.DB, purchaseID uuid.UUID) error {
	return r.conn(tx).Delete(&model.InventoryLot{}, "purchase_id = ?", purchaseID).Error
}

func (r *inventoryRepo) StockLevels(locationID *uuid.UUID) ([]StockLevel, error) {
	query := r.db.Model(&model.InventoryLot{}).
		Select(`product_id,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(AVG(purchase_price), 0) AS avg_purchase_price,
			COALESCE(AVG(selling_price), 0) AS avg_selling_price`).
		Where("is_active = ?", true).
		Group("product_id")

	if locationID != nil {
		query = query.Where("business_location_id = ?", *locationID)
	}

	var levels []StockLevel
	err := query.Scan(&levels).Error
	return levels, err
}
