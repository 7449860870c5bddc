package repository

import (
	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	FindByID(id uuid.UUID) (*model.Supplier, error)
	FindAll() ([]model.Supplier, error)
	Exists(id uuid.UUID) (bool, error)
	// AddDues bumps the legacy stored dues balance by delta, floored at
	// zero. Negative deltas record payments. The derived dues computation is
	// authoritative; this path exists for compatibility with the stored
	// field.
	AddDues(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	SetDues(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *supplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) FindAll() ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.Order("created_at DESC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Exists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Supplier{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *supplierRepo) AddDues(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return r.conn(tx).Model(&model.Supplier{}).
		Where("id = ?", id).
		Update("dues_amount", gorm.Expr("GREATEST(dues_amount + ?, 0)", delta)).Error
}

func (r *supplierRepo) SetDues(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	return r.conn(tx).Model(&model.Supplier{}).
		Where("id = ?", id).
		Update("dues_amount", amount).Error
}
