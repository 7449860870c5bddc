package repository

import (
	"time"

	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseFilter narrows the purchase list query. Nil/empty fields are
// ignored.
type PurchaseFilter struct {
	SupplierID         *uuid.UUID
	BusinessLocationID *uuid.UUID
	Status             string
	PaymentStatus      string
	DateFrom           *time.Time
	DateTo             *time.Time
	Search             string // matches reference_no
}

// SupplierTotals aggregates purchase amounts for the dues ledger. Soft
// deleted purchases are excluded by gorm's default scope.
type SupplierTotals struct {
	TotalPurchases decimal.Decimal
	TotalPaid      decimal.Decimal
}

type PurchaseRepository interface {
	Create(tx *gorm.DB, purchase *model.Purchase) error
	FindByID(id uuid.UUID) (*model.Purchase, error)
	// FindByIDUnscoped includes soft-deleted purchases (audit log lookups,
	// restore).
	FindByIDUnscoped(id uuid.UUID) (*model.Purchase, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error)
	List(filter PurchaseFilter, page, perPage int) ([]model.Purchase, int64, error)
	// LastReferenceNo returns the highest existing reference number starting
	// with prefix, or "" when none exists.
	LastReferenceNo(tx *gorm.DB, prefix string) (string, error)
	Updates(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	// MarkReceived flips status to received only while it is still ordered
	// and reports the number of rows touched. Zero rows means the purchase
	// was not in ordered status (or does not exist) - the caller treats that
	// as a state violation. The conditional update closes the
	// double-receive race.
	MarkReceived(tx *gorm.DB, id uuid.UUID) (int64, error)
	SoftDelete(tx *gorm.DB, id uuid.UUID) error
	Restore(tx *gorm.DB, id uuid.UUID) error
	TotalsBySupplier(supplierID uuid.UUID) (*SupplierTotals, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *purchaseRepo) Create(tx *gorm.DB, purchase *model.Purchase) error {
	return r.conn(tx).Create(purchase).Error
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Supplier").
		Preload("BusinessLocation").
		Preload("CreatedByUser").
		Preload("InventoryLots").
		Preload("InventoryLots.Product")
}

func (r *purchaseRepo) FindByID(id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := withAssociations(r.db).First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) FindByIDUnscoped(id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.Unscoped().First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.conn(tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) List(filter PurchaseFilter, page, perPage int) ([]model.Purchase, int64, error) {
	query := r.db.Model(&model.Purchase{})

	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.BusinessLocationID != nil {
		query = query.Where("business_location_id = ?", *filter.BusinessLocationID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.DateFrom != nil && filter.DateTo != nil {
		query = query.Where("purchase_date BETWEEN ? AND ?", *filter.DateFrom, *filter.DateTo)
	}
	if filter.Search != "" {
		query = query.Where("reference_no ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []model.Purchase
	err := withAssociations(query).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&purchases).Error
	return purchases, total, err
}

func (r *purchaseRepo) LastReferenceNo(tx *gorm.DB, prefix string) (string, error) {
	var last model.Purchase
	err := r.conn(tx).Unscoped().
		Where("reference_no LIKE ?", prefix+"%").
		Order("reference_no DESC").
		Select("reference_no").
		First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return last.ReferenceNo, nil
}

func (r *purchaseRepo) Updates(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return r.conn(tx).Model(&model.Purchase{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *purchaseRepo) MarkReceived(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := r.conn(tx).Model(&model.Purchase{}).
		Where("id = ? AND status = ?", id, model.PurchaseOrdered).
		Update("status", model.PurchaseReceived)
	return res.RowsAffected, res.Error
}

func (r *purchaseRepo) SoftDelete(tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).Delete(&model.Purchase{}, "id = ?", id).Error
}

func (r *purchaseRepo) Restore(tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).Unscoped().Model(&model.Purchase{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *purchaseRepo) TotalsBySupplier(supplierID uuid.UUID) (*SupplierTotals, error) {
	var totals SupplierTotals
	err := r.db.Model(&model.Purchase{}).
		Where("supplier_id = ?", supplierID).
		Select("COALESCE(SUM(total_amount), 0) AS total_purchases, COALESCE(SUM(paid_amount), 0) AS total_paid").
		Row().Scan(&totals.TotalPurchases, &totals.TotalPaid)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
