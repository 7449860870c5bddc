package handler

import (
	"time"

	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PurchaseHandler struct {
	purchases service.PurchaseService
	dues      service.DuesService
	docs      *storage.Store
}

func NewPurchaseHandler(purchases service.PurchaseService, dues service.DuesService, docs *storage.Store) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, dues: dues, docs: docs}
}

func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in service.CreatePurchaseInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	document, err := h.saveDocument(c)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Failed to store document")
	}

	purchase, err := h.purchases.Create(&in, document, actorFromCtx(c), metaFromCtx(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondCreated(c, "Purchase created successfully", purchase)
}

func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	filter := repository.PurchaseFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Search:        c.Query("search"),
	}
	if v := c.Query("supplier_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid supplier ID")
		}
		filter.SupplierID = &id
	}
	if v := c.Query("business_location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid business location ID")
		}
		filter.BusinessLocationID = &id
	}
	if v := c.Query("date_from"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid date_from, expected YYYY-MM-DD")
		}
		filter.DateFrom = &d
	}
	if v := c.Query("date_to"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid date_to, expected YYYY-MM-DD")
		}
		filter.DateTo = &d
	}

	page, err := h.purchases.List(filter, c.QueryInt("page", 1))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Purchases retrieved successfully", page)
}

func (h *PurchaseHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid purchase ID")
	}
	purchase, err := h.purchases.GetByID(id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Purchase retrieved successfully", purchase)
}

func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid purchase ID")
	}

	var in service.UpdatePurchaseInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	document, err := h.saveDocument(c)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Failed to store document")
	}

	purchase, err := h.purchases.Update(id, &in, document, actorFromCtx(c), metaFromCtx(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Purchase updated successfully", purchase)
}

func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid purchase ID")
	}
	if err := h.purchases.Delete(id, actorFromCtx(c), metaFromCtx(c)); err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Purchase deleted successfully", nil)
}

func (h *PurchaseHandler) ReceiveStock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid purchase ID")
	}

	var in service.ReceiveStockInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	purchase, err := h.purchases.ReceiveStock(id, &in, actorFromCtx(c), metaFromCtx(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Stock received successfully", purchase)
}

func (h *PurchaseHandler) Restore(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid purchase ID")
	}
	purchase, err := h.purchases.Restore(id, actorFromCtx(c), metaFromCtx(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Purchase restored successfully", purchase)
}

func (h *PurchaseHandler) AuditLogs(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid purchase ID")
	}
	logs, err := h.purchases.AuditLogs(id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Audit logs retrieved successfully", logs)
}

// SupplierDues reports the derived dues position of one supplier
func (h *PurchaseHandler) SupplierDues(c *fiber.Ctx) error {
	var in struct {
		SupplierID uuid.UUID `json:"supplier_id"`
	}
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if in.SupplierID == uuid.Nil {
		return respondError(c, fiber.StatusBadRequest, "supplier_id is required")
	}

	dues, err := h.dues.ComputeDues(in.SupplierID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Supplier dues retrieved successfully", dues)
}

// saveDocument stores an optional multipart document attachment and returns
// its stored name, or nil when the request carries none.
func (h *PurchaseHandler) saveDocument(c *fiber.Ctx) (*string, error) {
	file, err := c.FormFile("document")
	if err != nil {
		// no attachment on this request
		return nil, nil
	}
	name, err := h.docs.Save(file)
	if err != nil {
		return nil, err
	}
	return &name, nil
}
