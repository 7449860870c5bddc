package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchasesPerPage is the fixed page size of the purchase list
const PurchasesPerPage = 20

// deleteWindow is how long after creation a purchase stays deletable
const deleteWindow = 30 * 24 * time.Hour

type CreatePurchaseInput struct {
	SupplierID         uuid.UUID            `json:"supplier_id" validate:"uuid_required"`
	BusinessLocationID uuid.UUID            `json:"business_location_id" validate:"uuid_required"`
	PurchaseDate       string               `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	ReferenceNo        string               `json:"reference_no"`
	PurchaseNote       string               `json:"purchase_note"`
	PaidAmount         decimal.Decimal      `json:"paid_amount" validate:"min=0"`
	PaymentStatus      model.PaymentStatus  `json:"payment_status" validate:"required,oneof=pending paid partial all_dues_cleared"`
	PaymentMethod      model.PaymentMethod  `json:"payment_method" validate:"omitempty,oneof=cash card check bank_transfer"`
	Status             model.PurchaseStatus `json:"status" validate:"omitempty,oneof=ordered received"`
	Lines              []PurchaseLineInput  `json:"inventory_items" validate:"required,min=1,dive"`
}

type UpdatePurchaseInput struct {
	SupplierID         uuid.UUID            `json:"supplier_id" validate:"uuid_required"`
	BusinessLocationID uuid.UUID            `json:"business_location_id" validate:"uuid_required"`
	PurchaseDate       string               `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	PurchaseNote       string               `json:"purchase_note"`
	PaidAmount         decimal.Decimal      `json:"paid_amount" validate:"min=0"`
	PaymentStatus      model.PaymentStatus  `json:"payment_status" validate:"required,oneof=pending paid partial all_dues_cleared"`
	PaymentMethod      model.PaymentMethod  `json:"payment_method" validate:"omitempty,oneof=cash card check bank_transfer"`
	Status             model.PurchaseStatus `json:"status" validate:"required,oneof=ordered received"`
}

type ReceiveStockInput struct {
	Lines []ReceiveLineInput `json:"inventory_items" validate:"required,min=1,dive"`
}

// PurchaseList is one page of the filtered purchase listing
type PurchaseList struct {
	Items   []model.Purchase `json:"items"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Total   int64            `json:"total"`
}

type PurchaseService interface {
	Create(in *CreatePurchaseInput, document *string, actor Actor, meta RequestMeta) (*model.Purchase, error)
	GetByID(id uuid.UUID) (*model.Purchase, error)
	List(filter repository.PurchaseFilter, page int) (*PurchaseList, error)
	Update(id uuid.UUID, in *UpdatePurchaseInput, newDocument *string, actor Actor, meta RequestMeta) (*model.Purchase, error)
	Delete(id uuid.UUID, actor Actor, meta RequestMeta) error
	ReceiveStock(id uuid.UUID, in *ReceiveStockInput, actor Actor, meta RequestMeta) (*model.Purchase, error)
	Restore(id uuid.UUID, actor Actor, meta RequestMeta) (*model.Purchase, error)
	AuditLogs(id uuid.UUID) ([]model.PurchaseAuditLog, error)
}

type purchaseService struct {
	txr       TxRunner
	purchases repository.PurchaseRepository
	lots      repository.InventoryRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	lotWriter *LotWriter
	audit     *AuditRecorder
	docs      DocumentStore
	hub       Broadcaster
	now       func() time.Time
}

func NewPurchaseService(
	txr TxRunner,
	purchases repository.PurchaseRepository,
	lots repository.InventoryRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	audit *AuditRecorder,
	docs DocumentStore,
	hub Broadcaster,
) PurchaseService {
	return &purchaseService{
		txr:       txr,
		purchases: purchases,
		lots:      lots,
		suppliers: suppliers,
		products:  products,
		locations: locations,
		lotWriter: NewLotWriter(lots),
		audit:     audit,
		docs:      docs,
		hub:       hub,
		now:       time.Now,
	}
}

func (s *purchaseService) Create(in *CreatePurchaseInput, document *string, actor Actor, meta RequestMeta) (*model.Purchase, error) {
	fields := validator.ValidateStruct(in)
	fields = s.checkReferences(fields, in.SupplierID, in.BusinessLocationID, productIDsFromLines(in.Lines))
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	purchaseDate, _ := time.Parse("2006-01-02", in.PurchaseDate)

	status := in.Status
	if status == "" {
		status = model.PurchaseOrdered
	}

	totalAmount := decimal.Zero
	for _, line := range in.Lines {
		totalAmount = totalAmount.Add(line.TotalOrderAmount)
	}
	dueAmount := totalAmount.Sub(in.PaidAmount)

	purchase := &model.Purchase{
		ReferenceNo:        in.ReferenceNo,
		SupplierID:         in.SupplierID,
		BusinessLocationID: in.BusinessLocationID,
		CreatedByID:        actor.ID,
		PurchaseDate:       purchaseDate,
		PurchaseNote:       in.PurchaseNote,
		TotalAmount:        totalAmount,
		PaidAmount:         in.PaidAmount,
		DueAmount:          dueAmount,
		PaymentStatus:      in.PaymentStatus,
		PaymentMethod:      in.PaymentMethod,
		Status:             status,
		IsActive:           true,
	}
	if document != nil {
		purchase.Document = *document
	}

	var createdLots []model.InventoryLot
	err := s.txr.Do(func(tx *gorm.DB) error {
		if purchase.ReferenceNo == "" {
			ref, err := s.nextReferenceNo(tx)
			if err != nil {
				return err
			}
			purchase.ReferenceNo = ref
		}

		if err := s.purchases.Create(tx, purchase); err != nil {
			return err
		}

		// Lots materialize only when the order arrives already received
		if status == model.PurchaseReceived {
			lots, err := s.lotWriter.WriteFromRates(tx, purchase, in.Lines)
			if err != nil {
				return err
			}
			createdLots = lots
		}

		// Legacy eager dues path; the derived ledger is authoritative
		if in.PaymentStatus.OwesSupplier() {
			if err := s.suppliers.AddDues(tx, in.SupplierID, dueAmount); err != nil {
				return err
			}
		}

		return s.audit.Record(tx, purchase.ID, model.AuditCreated, actor, meta, nil, purchaseSnapshot(purchase))
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStockUpdate(purchase, createdLots, actor)

	return s.purchases.FindByID(purchase.ID)
}

func (s *purchaseService) GetByID(id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.purchases.FindByID(id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return purchase, nil
}

func (s *purchaseService) List(filter repository.PurchaseFilter, page int) (*PurchaseList, error) {
	if page < 1 {
		page = 1
	}
	items, total, err := s.purchases.List(filter, page, PurchasesPerPage)
	if err != nil {
		return nil, err
	}
	return &PurchaseList{Items: items, Page: page, PerPage: PurchasesPerPage, Total: total}, nil
}

func (s *purchaseService) Update(id uuid.UUID, in *UpdatePurchaseInput, newDocument *string, actor Actor, meta RequestMeta) (*model.Purchase, error) {
	fields := validator.ValidateStruct(in)
	fields = s.checkReferences(fields, in.SupplierID, in.BusinessLocationID, nil)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	purchaseDate, _ := time.Parse("2006-01-02", in.PurchaseDate)

	var replacedDocument string
	err := s.txr.Do(func(tx *gorm.DB) error {
		existing, err := s.purchases.FindForUpdate(tx, id)
		if err != nil {
			return asNotFound(err)
		}
		oldValues := purchaseSnapshot(existing)

		// Line amounts are not re-derived on update: the due amount is
		// recomputed against the existing total.
		dueAmount := existing.TotalAmount.Sub(in.PaidAmount)

		updates := map[string]interface{}{
			"supplier_id":          in.SupplierID,
			"business_location_id": in.BusinessLocationID,
			"purchase_date":        purchaseDate,
			"purchase_note":        in.PurchaseNote,
			"paid_amount":          in.PaidAmount,
			"due_amount":           dueAmount,
			"payment_status":       in.PaymentStatus,
			"payment_method":       in.PaymentMethod,
			"status":               in.Status,
		}
		if newDocument != nil {
			updates["document"] = *newDocument
			if existing.Document != "" && existing.Document != *newDocument {
				replacedDocument = existing.Document
			}
		}

		if err := s.purchases.Updates(tx, id, updates); err != nil {
			return err
		}

		updated := *existing
		updated.SupplierID = in.SupplierID
		updated.BusinessLocationID = in.BusinessLocationID
		updated.PurchaseDate = purchaseDate
		updated.PurchaseNote = in.PurchaseNote
		updated.PaidAmount = in.PaidAmount
		updated.DueAmount = dueAmount
		updated.PaymentStatus = in.PaymentStatus
		updated.PaymentMethod = in.PaymentMethod
		updated.Status = in.Status
		if newDocument != nil {
			updated.Document = *newDocument
		}

		return s.audit.Record(tx, id, model.AuditUpdated, actor, meta, oldValues, purchaseSnapshot(&updated))
	})
	if err != nil {
		return nil, err
	}

	if replacedDocument != "" {
		if err := s.docs.Remove(replacedDocument); err != nil {
			log.Warn().Err(err).Str("document", replacedDocument).Msg("failed to remove replaced purchase document")
		}
	}

	return s.purchases.FindByID(id)
}

func (s *purchaseService) Delete(id uuid.UUID, actor Actor, meta RequestMeta) error {
	var document string
	err := s.txr.Do(func(tx *gorm.DB) error {
		purchase, err := s.purchases.FindForUpdate(tx, id)
		if err != nil {
			return asNotFound(err)
		}

		if s.now().Sub(purchase.CreatedAt) > deleteWindow {
			return ruleErr("Cannot delete purchases older than 30 days. Please contact administrator for assistance.")
		}
		if purchase.Status == model.PurchaseReceived {
			return ruleErr("Cannot delete received purchases. Received purchases affect inventory and cannot be deleted.")
		}

		lots, err := s.lots.FindByPurchase(tx, id)
		if err != nil {
			return err
		}
		for _, lot := range lots {
			if lot.SoldQuantity > 0 {
				return ruleErr("Cannot delete purchase. Some items from this purchase have been sold.")
			}
		}

		if err := s.lots.DeleteByPurchase(tx, id); err != nil {
			return err
		}
		if err := s.purchases.SoftDelete(tx, id); err != nil {
			return err
		}

		document = purchase.Document
		// Supplier dues are not touched here: the derived ledger simply
		// stops counting a soft-deleted purchase.
		return s.audit.Record(tx, id, model.AuditDeleted, actor, meta, purchaseSnapshot(purchase), nil)
	})
	if err != nil {
		return err
	}

	if document != "" {
		if err := s.docs.Remove(document); err != nil {
			log.Warn().Err(err).Str("document", document).Msg("failed to remove purchase document")
		}
	}
	return nil
}

func (s *purchaseService) ReceiveStock(id uuid.UUID, in *ReceiveStockInput, actor Actor, meta RequestMeta) (*model.Purchase, error) {
	fields := validator.ValidateStruct(in)
	for i, line := range in.Lines {
		fields = s.checkProduct(fields, fmt.Sprintf("inventory_items.%d.product_id", i), line.ProductID)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var purchase *model.Purchase
	var createdLots []model.InventoryLot
	err := s.txr.Do(func(tx *gorm.DB) error {
		existing, err := s.purchases.FindForUpdate(tx, id)
		if err != nil {
			return asNotFound(err)
		}

		// Conditional update guards against two concurrent receives
		rows, err := s.purchases.MarkReceived(tx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ruleErr("Purchase must be in ordered status to receive stock")
		}

		lots, err := s.lotWriter.WriteFromAmounts(tx, existing, in.Lines)
		if err != nil {
			return err
		}
		createdLots = lots

		oldValues := purchaseSnapshot(existing)
		received := *existing
		received.Status = model.PurchaseReceived
		purchase = &received

		return s.audit.Record(tx, id, model.AuditUpdated, actor, meta, oldValues, purchaseSnapshot(&received))
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStockUpdate(purchase, createdLots, actor)

	return s.purchases.FindByID(id)
}

func (s *purchaseService) Restore(id uuid.UUID, actor Actor, meta RequestMeta) (*model.Purchase, error) {
	purchase, err := s.purchases.FindByIDUnscoped(id)
	if err != nil {
		return nil, asNotFound(err)
	}
	if !purchase.DeletedAt.Valid {
		return nil, ruleErr("Purchase is not deleted")
	}

	err = s.txr.Do(func(tx *gorm.DB) error {
		if err := s.purchases.Restore(tx, id); err != nil {
			return err
		}
		restored := *purchase
		restored.DeletedAt = gorm.DeletedAt{}
		return s.audit.Record(tx, id, model.AuditRestored, actor, meta, nil, purchaseSnapshot(&restored))
	})
	if err != nil {
		return nil, err
	}

	return s.purchases.FindByID(id)
}

func (s *purchaseService) AuditLogs(id uuid.UUID) ([]model.PurchaseAuditLog, error) {
	// Soft-deleted purchases keep their audit trail reachable
	if _, err := s.purchases.FindByIDUnscoped(id); err != nil {
		return nil, asNotFound(err)
	}
	return s.audit.repo.FindByPurchase(id)
}

// nextReferenceNo builds PUR + YYYYMMDD + a 4-digit sequence that restarts
// each day, derived from the highest existing reference with that prefix.
func (s *purchaseService) nextReferenceNo(tx *gorm.DB) (string, error) {
	prefix := model.ReferencePrefix + s.now().Format("20060102")
	last, err := s.purchases.LastReferenceNo(tx, prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if len(last) >= 4 {
		if n, err := strconv.Atoi(last[len(last)-4:]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// checkReferences appends existence failures for foreign keys to the field
// error map, mirroring the 422 contract for dangling references.
func (s *purchaseService) checkReferences(fields map[string][]string, supplierID, locationID uuid.UUID, productChecks map[string]uuid.UUID) map[string][]string {
	if fields == nil {
		fields = map[string][]string{}
	}
	if supplierID != uuid.Nil {
		if ok, err := s.suppliers.Exists(supplierID); err == nil && !ok {
			fields["supplier_id"] = append(fields["supplier_id"], "The selected supplier does not exist")
		}
	}
	if locationID != uuid.Nil {
		if ok, err := s.locations.Exists(locationID); err == nil && !ok {
			fields["business_location_id"] = append(fields["business_location_id"], "The selected business location does not exist")
		}
	}
	for key, productID := range productChecks {
		fields = s.checkProduct(fields, key, productID)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *purchaseService) checkProduct(fields map[string][]string, key string, productID uuid.UUID) map[string][]string {
	if fields == nil {
		fields = map[string][]string{}
	}
	if productID != uuid.Nil {
		if ok, err := s.products.Exists(productID); err == nil && !ok {
			fields[key] = append(fields[key], "The selected product does not exist")
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func productIDsFromLines(lines []PurchaseLineInput) map[string]uuid.UUID {
	checks := make(map[string]uuid.UUID, len(lines))
	for i, line := range lines {
		checks[fmt.Sprintf("inventory_items.%d.product_id", i)] = line.ProductID
	}
	return checks
}

// broadcastStockUpdate pushes a stock event to websocket clients after lots
// have been committed. No-op when no lots were written.
func (s *purchaseService) broadcastStockUpdate(purchase *model.Purchase, lots []model.InventoryLot, actor Actor) {
	if len(lots) == 0 || s.hub == nil {
		return
	}
	items := make([]map[string]interface{}, 0, len(lots))
	for _, lot := range lots {
		items = append(items, map[string]interface{}{
			"product_id": lot.ProductID,
			"quantity":   lot.Quantity,
		})
	}
	go s.hub.Publish(map[string]interface{}{
		"type":         "stock_update",
		"action":       "purchase_received",
		"reference_no": purchase.ReferenceNo,
		"purchase_id":  purchase.ID,
		"items":        items,
		"user": map[string]interface{}{
			"name":  actor.Name,
			"email": actor.Email,
		},
	})
}

// asNotFound normalizes gorm's record-not-found into the service taxonomy
func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
