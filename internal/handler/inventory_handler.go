package handler

import (
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	inventory service.InventoryService
}

func NewInventoryHandler(inventory service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) List(c *fiber.Ctx) error {
	filter := repository.LotFilter{
		Search:        c.Query("search"),
		InventoryType: c.Query("inventory_type"),
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true" || v == "1"
		filter.IsActive = &active
	}
	if v := c.Query("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid product ID")
		}
		filter.ProductID = &id
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

	page, err := h.inventory.List(filter, c.QueryInt("page", 1))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Inventory retrieved successfully", page)
}

func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid inventory ID")
	}
	lot, err := h.inventory.GetByID(id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Inventory lot retrieved successfully", lot)
}

// Update is the administrative correction endpoint for a single lot
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid inventory ID")
	}

	var in service.UpdateLotInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	lot, err := h.inventory.Update(id, &in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Inventory lot updated successfully", lot)
}

// StockLevels aggregates on-hand quantities per product across active lots
func (h *InventoryHandler) StockLevels(c *fiber.Ctx) error {
	var locationID *uuid.UUID
	if v := c.Query("business_location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Invalid business location ID")
		}
		locationID = &id
	}

	levels, err := h.inventory.StockLevels(locationID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, "Stock levels retrieved successfully", levels)
}
