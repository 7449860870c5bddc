package service

import (
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// fakeTxRunner executes the callback without a database; repositories under
// test are mocks, so the nil tx is never dereferenced.
type fakeTxRunner struct{}

func (fakeTxRunner) Do(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeBroadcaster struct{}

func (fakeBroadcaster) Publish(event interface{}) {}

type fakeDocumentStore struct {
	removed []string
}

func (s *fakeDocumentStore) Remove(name string) error {
	s.removed = append(s.removed, name)
	return nil
}

type mockPurchaseRepo struct {
	mock.Mock
}

func (m *mockPurchaseRepo) Create(tx *gorm.DB, purchase *model.Purchase) error {
	args := m.Called(tx, purchase)
	return args.Error(0)
}

func (m *mockPurchaseRepo) FindByID(id uuid.UUID) (*model.Purchase, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *mockPurchaseRepo) FindByIDUnscoped(id uuid.UUID) (*model.Purchase, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *mockPurchaseRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *mockPurchaseRepo) List(filter repository.PurchaseFilter, page, perPage int) ([]model.Purchase, int64, error) {
	args := m.Called(filter, page, perPage)
	return args.Get(0).([]model.Purchase), args.Get(1).(int64), args.Error(2)
}

func (m *mockPurchaseRepo) LastReferenceNo(tx *gorm.DB, prefix string) (string, error) {
	args := m.Called(tx, prefix)
	return args.String(0), args.Error(1)
}

func (m *mockPurchaseRepo) Updates(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(tx, id, fields)
	return args.Error(0)
}

func (m *mockPurchaseRepo) MarkReceived(tx *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(tx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPurchaseRepo) SoftDelete(tx *gorm.DB, id uuid.UUID) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

func (m *mockPurchaseRepo) Restore(tx *gorm.DB, id uuid.UUID) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

func (m *mockPurchaseRepo) TotalsBySupplier(supplierID uuid.UUID) (*repository.SupplierTotals, error) {
	args := m.Called(supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SupplierTotals), args.Error(1)
}

type mockInventoryRepo struct {
	mock.Mock
}

func (m *mockInventoryRepo) CreateLots(tx *gorm.DB, lots []model.InventoryLot) error {
	args := m.Called(tx, lots)
	return args.Error(0)
}

func (m *mockInventoryRepo) FindByID(id uuid.UUID) (*model.InventoryLot, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryLot), args.Error(1)
}

func (m *mockInventoryRepo) FindByPurchase(tx *gorm.DB, purchaseID uuid.UUID) ([]model.InventoryLot, error) {
	args := m.Called(tx, purchaseID)
	return args.Get(0).([]model.InventoryLot), args.Error(1)
}

func (m *mockInventoryRepo) List(filter repository.LotFilter, page, perPage int) ([]model.InventoryLot, int64, error) {
	args := m.Called(filter, page, perPage)
	return args.Get(0).([]model.InventoryLot), args.Get(1).(int64), args.Error(2)
}

func (m *mockInventoryRepo) Updates(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(tx, id, fields)
	return args.Error(0)
}

func (m *mockInventoryRepo) DeleteByPurchase(tx *gorm.DB, purchaseID uuid.UUID) error {
	args := m.Called(tx, purchaseID)
	return args.Error(0)
}

func (m *mockInventoryRepo) StockLevels(locationID *uuid.UUID) ([]repository.StockLevel, error) {
	args := m.Called(locationID)
	return args.Get(0).([]repository.StockLevel), args.Error(1)
}

type mockSupplierRepo struct {
	mock.Mock
}

func (m *mockSupplierRepo) Create(supplier *model.Supplier) error {
	args := m.Called(supplier)
	return args.Error(0)
}

func (m *mockSupplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) FindAll() ([]model.Supplier, error) {
	args := m.Called()
	return args.Get(0).([]model.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) Exists(id uuid.UUID) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockSupplierRepo) AddDues(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(tx, id, delta)
	return args.Error(0)
}

func (m *mockSupplierRepo) SetDues(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(tx, id, amount)
	return args.Error(0)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *mockProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) FindAll() ([]model.Product, error) {
	args := m.Called()
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductRepo) Exists(id uuid.UUID) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

type mockLocationRepo struct {
	mock.Mock
}

func (m *mockLocationRepo) FindByID(id uuid.UUID) (*model.BusinessLocation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BusinessLocation), args.Error(1)
}

func (m *mockLocationRepo) FindAll() ([]model.BusinessLocation, error) {
	args := m.Called()
	return args.Get(0).([]model.BusinessLocation), args.Error(1)
}

func (m *mockLocationRepo) Exists(id uuid.UUID) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Create(tx *gorm.DB, entry *model.PurchaseAuditLog) error {
	args := m.Called(tx, entry)
	return args.Error(0)
}

func (m *mockAuditRepo) FindByPurchase(purchaseID uuid.UUID) ([]model.PurchaseAuditLog, error) {
	args := m.Called(purchaseID)
	return args.Get(0).([]model.PurchaseAuditLog), args.Error(1)
}
