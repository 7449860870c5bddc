package handler

import (
	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SupplierHandler struct {
	suppliers service.SupplierService
	dues      service.DuesService
}

func NewSupplierHandler(suppliers service.SupplierService, dues service.DuesService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers, dues: dues}
}

func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in service.CreateSupplierInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	supplier, err := h.suppliers.Create(&in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondCreated(c, "Supplier created successfully", supplier)
}

func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.suppliers.List()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Suppliers retrieved successfully", suppliers)
}

func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid supplier ID")
	}
	supplier, err := h.suppliers.GetByID(id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Supplier retrieved successfully", supplier)
}

// Dues returns the derived dues position for one supplier
func (h *SupplierHandler) Dues(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid supplier ID")
	}
	dues, err := h.dues.ComputeDues(id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Supplier dues retrieved successfully", dues)
}

// AdjustDues applies a manual correction to the stored dues balance
func (h *SupplierHandler) AdjustDues(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid supplier ID")
	}

	var in service.AdjustDuesInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	in.SupplierID = id
	supplier, err := h.dues.AdjustDues(&in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Supplier dues adjusted successfully", supplier)
}
