package service

import (
	"encoding/json"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated identity a mutation is attributed to. ID is nil
// for unauthenticated or system actions.
type Actor struct {
	ID    *uuid.UUID
	Name  string
	Email string
}

// RequestMeta is the network/client metadata captured alongside each audit
// entry.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuditRecorder writes one append-only audit row per purchase mutation. It
// is invoked explicitly by the purchase service inside the mutation's
// transaction; a failed audit write fails the whole operation.
type AuditRecorder struct {
	repo repository.AuditLogRepository
}

func NewAuditRecorder(repo repository.AuditLogRepository) *AuditRecorder {
	return &AuditRecorder{repo: repo}
}

// Record persists the audit entry for one mutation. oldValues is empty on
// create, newValues is empty on delete; changes holds only the keys that
// differ.
func (a *AuditRecorder) Record(tx *gorm.DB, purchaseID uuid.UUID, action model.AuditAction, actor Actor, meta RequestMeta, oldValues, newValues map[string]interface{}) error {
	if oldValues == nil {
		oldValues = map[string]interface{}{}
	}
	if newValues == nil {
		newValues = map[string]interface{}{}
	}

	entry := &model.PurchaseAuditLog{
		PurchaseID: purchaseID,
		UserID:     actor.ID,
		Action:     action,
		Changes:    mustJSON(diffSnapshots(oldValues, newValues)),
		OldValues:  mustJSON(oldValues),
		NewValues:  mustJSON(newValues),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}
	return a.repo.Create(tx, entry)
}

// diffSnapshots returns the keys of new whose values differ from old,
// mapped to their new values.
func diffSnapshots(old, new map[string]interface{}) map[string]interface{} {
	changes := map[string]interface{}{}
	for k, nv := range new {
		if ov, ok := old[k]; !ok || ov != nv {
			changes[k] = nv
		}
	}
	return changes
}

func mustJSON(v map[string]interface{}) []byte {
	// Maps of scalar values cannot fail to marshal
	b, _ := json.Marshal(v)
	return b
}

// purchaseSnapshot flattens the auditable fields of a purchase into scalar
// values suitable for JSON diffing.
func purchaseSnapshot(p *model.Purchase) map[string]interface{} {
	return map[string]interface{}{
		"reference_no":         p.ReferenceNo,
		"supplier_id":          p.SupplierID.String(),
		"business_location_id": p.BusinessLocationID.String(),
		"purchase_date":        p.PurchaseDate.Format("2006-01-02"),
		"purchase_note":        p.PurchaseNote,
		"document":             p.Document,
		"total_amount":         p.TotalAmount.String(),
		"paid_amount":          p.PaidAmount.String(),
		"due_amount":           p.DueAmount.String(),
		"payment_status":       string(p.PaymentStatus),
		"payment_method":       string(p.PaymentMethod),
		"status":               string(p.Status),
	}
}
