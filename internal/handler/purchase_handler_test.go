package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPurchaseService struct {
	mock.Mock
}

func (m *mockPurchaseService) Create(in *service.CreatePurchaseInput, document *string, actor service.Actor, meta service.RequestMeta) (*model.Purchase, error) {
	args := m.Called(in, document, actor, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *mockPurchaseService) GetByID(id uuid.UUID) (*model.Purchase, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *mockPurchaseService) List(filter repository.PurchaseFilter, page int) (*service.PurchaseList, error) {
	args := m.Called(filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PurchaseList), args.Error(1)
}

func (m *mockPurchaseService) Update(id uuid.UUID, in *service.UpdatePurchaseInput, newDocument *string, actor service.Actor, meta service.RequestMeta) (*model.Purchase, error) {
	args := m.Called(id, in, newDocument, actor, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *mockPurchaseService) Delete(id uuid.UUID, actor service.Actor, meta service.RequestMeta) error {
	args := m.Called(id, actor, meta)
	return args.Error(0)
}

func (m *mockPurchaseService) ReceiveStock(id uuid.UUID, in *service.ReceiveStockInput, actor service.Actor, meta service.RequestMeta) (*model.Purchase, error) {
	args := m.Called(id, in, actor, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *mockPurchaseService) Restore(id uuid.UUID, actor service.Actor, meta service.RequestMeta) (*model.Purchase, error) {
	args := m.Called(id, actor, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *mockPurchaseService) AuditLogs(id uuid.UUID) ([]model.PurchaseAuditLog, error) {
	args := m.Called(id)
	return args.Get(0).([]model.PurchaseAuditLog), args.Error(1)
}

type mockDuesService struct {
	mock.Mock
}

func (m *mockDuesService) ComputeDues(supplierID uuid.UUID) (*service.SupplierDues, error) {
	args := m.Called(supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SupplierDues), args.Error(1)
}

func (m *mockDuesService) AdjustDues(in *service.AdjustDuesInput) (*model.Supplier, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func newTestApp(purchases service.PurchaseService, dues service.DuesService) *fiber.App {
	app := fiber.New()
	h := NewPurchaseHandler(purchases, dues, nil)
	app.Get("/api/v1/purchases", h.List)
	app.Post("/api/v1/purchases", h.Create)
	app.Post("/api/v1/purchases/supplier-dues", h.SupplierDues)
	app.Get("/api/v1/purchases/:id", h.Get)
	app.Delete("/api/v1/purchases/:id", h.Delete)
	app.Post("/api/v1/purchases/:id/receive-stock", h.ReceiveStock)
	return app
}

func decodeBody(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func TestGetPurchaseInvalidID(t *testing.T) {
	app := newTestApp(new(mockPurchaseService), new(mockDuesService))

	req := httptest.NewRequest("GET", "/api/v1/purchases/not-a-uuid", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetPurchaseNotFound(t *testing.T) {
	purchases := new(mockPurchaseService)
	app := newTestApp(purchases, new(mockDuesService))

	id := uuid.New()
	purchases.On("GetByID", id).Return(nil, service.ErrNotFound)

	req := httptest.NewRequest("GET", "/api/v1/purchases/"+id.String(), nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])
}

func TestCreatePurchaseValidationErrorsSurfaceAs422(t *testing.T) {
	purchases := new(mockPurchaseService)
	app := newTestApp(purchases, new(mockDuesService))

	purchases.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &service.ValidationError{Fields: map[string][]string{
			"supplier_id": {"The supplier_id field is required"},
		}})

	req := httptest.NewRequest("POST", "/api/v1/purchases", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "supplier_id")
}

func TestReceiveStockRuleViolationSurfacesAs400(t *testing.T) {
	purchases := new(mockPurchaseService)
	app := newTestApp(purchases, new(mockDuesService))

	id := uuid.New()
	purchases.On("ReceiveStock", id, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &service.RuleError{Reason: "Purchase must be in ordered status to receive stock"})

	req := httptest.NewRequest("POST", "/api/v1/purchases/"+id.String()+"/receive-stock", bytes.NewBufferString(`{"inventory_items":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Purchase must be in ordered status to receive stock", body["message"])
}

func TestDeletePurchase(t *testing.T) {
	purchases := new(mockPurchaseService)
	app := newTestApp(purchases, new(mockDuesService))

	id := uuid.New()
	purchases.On("Delete", id, mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest("DELETE", "/api/v1/purchases/"+id.String(), nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	purchases.AssertExpectations(t)
}

func TestSupplierDuesRequiresSupplierID(t *testing.T) {
	app := newTestApp(new(mockPurchaseService), new(mockDuesService))

	req := httptest.NewRequest("POST", "/api/v1/purchases/supplier-dues", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListPassesFiltersThrough(t *testing.T) {
	purchases := new(mockPurchaseService)
	app := newTestApp(purchases, new(mockDuesService))

	purchases.On("List", mock.MatchedBy(func(f repository.PurchaseFilter) bool {
		return f.Status == "ordered" && f.Search == "PUR2026"
	}), 2).Return(&service.PurchaseList{Page: 2, PerPage: service.PurchasesPerPage}, nil)

	req := httptest.NewRequest("GET", "/api/v1/purchases?status=ordered&search=PUR2026&page=2", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	purchases.AssertExpectations(t)
}
