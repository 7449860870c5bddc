package repository

import (
	"go-pos-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository is append-only: rows are created inside purchase
// mutation transactions and only ever read afterwards.
type AuditLogRepository interface {
	Create(tx *gorm.DB, entry *model.PurchaseAuditLog) error
	FindByPurchase(purchaseID uuid.UUID) ([]model.PurchaseAuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db}
}

func (r *auditLogRepo) Create(tx *gorm.DB, entry *model.PurchaseAuditLog) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.Create(entry).Error
}

func (r *auditLogRepo) FindByPurchase(purchaseID uuid.UUID) ([]model.PurchaseAuditLog, error) {
	var entries []model.PurchaseAuditLog
	err := r.db.
		Preload("User").
		Where("purchase_id = ?", purchaseID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
