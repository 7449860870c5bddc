package service

import (
	"testing"
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type purchaseServiceMocks struct {
	purchases *mockPurchaseRepo
	lots      *mockInventoryRepo
	suppliers *mockSupplierRepo
	products  *mockProductRepo
	locations *mockLocationRepo
	audit     *mockAuditRepo
	docs      *fakeDocumentStore
}

func newTestPurchaseService(now time.Time) (*purchaseService, *purchaseServiceMocks) {
	m := &purchaseServiceMocks{
		purchases: new(mockPurchaseRepo),
		lots:      new(mockInventoryRepo),
		suppliers: new(mockSupplierRepo),
		products:  new(mockProductRepo),
		locations: new(mockLocationRepo),
		audit:     new(mockAuditRepo),
		docs:      &fakeDocumentStore{},
	}
	s := &purchaseService{
		txr:       fakeTxRunner{},
		purchases: m.purchases,
		lots:      m.lots,
		suppliers: m.suppliers,
		products:  m.products,
		locations: m.locations,
		lotWriter: NewLotWriter(m.lots),
		audit:     NewAuditRecorder(m.audit),
		docs:      m.docs,
		hub:       fakeBroadcaster{},
		now:       func() time.Time { return now },
	}
	return s, m
}

func testActor() Actor {
	id := uuid.New()
	return Actor{ID: &id, Name: "Jane Admin", Email: "jane@example.com"}
}

func validCreateInput(supplierID, locationID, productID uuid.UUID) *CreatePurchaseInput {
	return &CreatePurchaseInput{
		SupplierID:         supplierID,
		BusinessLocationID: locationID,
		PurchaseDate:       "2026-08-30",
		PaidAmount:         decimal.NewFromInt(50),
		PaymentStatus:      model.PaymentPartial,
		PaymentMethod:      model.PaymentCash,
		Lines: []PurchaseLineInput{
			{
				ProductID:        productID,
				Quantity:         10,
				PurchasePrice:    decimal.NewFromInt(10),
				InclusiveTaxRate: decimal.NewFromInt(10),
				ExclusiveTaxRate: decimal.NewFromInt(5),
				ProfitMargin:     decimal.NewFromInt(20),
				OneItemAmount:    decimal.NewFromFloat(12.30),
				TotalOrderAmount: decimal.NewFromInt(123),
			},
		},
	}
}

func TestCreatePurchaseOrderedSkipsLots(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	supplierID, locationID, productID := uuid.New(), uuid.New(), uuid.New()
	in := validCreateInput(supplierID, locationID, productID)

	m.suppliers.On("Exists", supplierID).Return(true, nil)
	m.locations.On("Exists", locationID).Return(true, nil)
	m.products.On("Exists", productID).Return(true, nil)
	m.purchases.On("LastReferenceNo", mock.Anything, "PUR20260830").Return("", nil)

	var created *model.Purchase
	m.purchases.On("Create", mock.Anything, mock.AnythingOfType("*model.Purchase")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Purchase)
			created.ID = uuid.New()
		}).Return(nil)
	m.suppliers.On("AddDues", mock.Anything, supplierID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(73))
	})).Return(nil)
	m.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.PurchaseAuditLog) bool {
		return e.Action == model.AuditCreated
	})).Return(nil)
	m.purchases.On("FindByID", mock.AnythingOfType("uuid.UUID")).Return(&model.Purchase{}, nil)

	_, err := s.Create(in, nil, testActor(), RequestMeta{})
	assert.NoError(t, err)

	assert.Equal(t, "PUR202608300001", created.ReferenceNo)
	assert.Equal(t, model.PurchaseOrdered, created.Status)
	assert.True(t, created.TotalAmount.Equal(decimal.NewFromInt(123)))
	assert.True(t, created.DueAmount.Equal(decimal.NewFromInt(73)))

	// ordered purchases must not materialize inventory lots
	m.lots.AssertNotCalled(t, "CreateLots", mock.Anything, mock.Anything)
	m.suppliers.AssertExpectations(t)
	m.audit.AssertExpectations(t)
}

func TestCreatePurchaseReceivedWritesLots(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	supplierID, locationID, productID := uuid.New(), uuid.New(), uuid.New()
	in := validCreateInput(supplierID, locationID, productID)
	in.Status = model.PurchaseReceived
	in.PaymentStatus = model.PaymentPaid
	in.PaidAmount = decimal.NewFromInt(123)

	m.suppliers.On("Exists", supplierID).Return(true, nil)
	m.locations.On("Exists", locationID).Return(true, nil)
	m.products.On("Exists", productID).Return(true, nil)
	m.purchases.On("LastReferenceNo", mock.Anything, "PUR20260830").Return("PUR202608300007", nil)
	m.purchases.On("Create", mock.Anything, mock.AnythingOfType("*model.Purchase")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Purchase).ID = uuid.New()
		}).Return(nil)

	var written []model.InventoryLot
	m.lots.On("CreateLots", mock.Anything, mock.AnythingOfType("[]model.InventoryLot")).
		Run(func(args mock.Arguments) {
			written = args.Get(1).([]model.InventoryLot)
		}).Return(nil)
	m.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.purchases.On("FindByID", mock.AnythingOfType("uuid.UUID")).Return(&model.Purchase{}, nil)

	_, err := s.Create(in, nil, testActor(), RequestMeta{})
	assert.NoError(t, err)

	assert.Len(t, written, 1)
	lot := written[0]
	assert.Equal(t, productID, lot.ProductID)
	assert.Equal(t, supplierID, lot.SupplierID)
	assert.Equal(t, 10, lot.Quantity)
	assert.Equal(t, model.InventoryPurchase, lot.InventoryType)
	// tax and profit derive from the rates, not the payload
	assert.True(t, lot.TaxAmount.Equal(decimal.NewFromFloat(1.50)), "tax amount got %s", lot.TaxAmount)
	assert.True(t, lot.ProfitAmount.Equal(decimal.NewFromFloat(2.30)), "profit amount got %s", lot.ProfitAmount)

	// fully paid purchases leave supplier dues untouched
	m.suppliers.AssertNotCalled(t, "AddDues", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePurchaseReferenceSequenceContinues(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	supplierID, locationID, productID := uuid.New(), uuid.New(), uuid.New()
	in := validCreateInput(supplierID, locationID, productID)

	m.suppliers.On("Exists", supplierID).Return(true, nil)
	m.locations.On("Exists", locationID).Return(true, nil)
	m.products.On("Exists", productID).Return(true, nil)
	m.purchases.On("LastReferenceNo", mock.Anything, "PUR20260830").Return("PUR202608300041", nil)

	var created *model.Purchase
	m.purchases.On("Create", mock.Anything, mock.AnythingOfType("*model.Purchase")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Purchase)
			created.ID = uuid.New()
		}).Return(nil)
	m.suppliers.On("AddDues", mock.Anything, supplierID, mock.Anything).Return(nil)
	m.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.purchases.On("FindByID", mock.AnythingOfType("uuid.UUID")).Return(&model.Purchase{}, nil)

	_, err := s.Create(in, nil, testActor(), RequestMeta{})
	assert.NoError(t, err)
	assert.Equal(t, "PUR202608300042", created.ReferenceNo)
}

func TestCreatePurchaseCollectsAllFieldErrors(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	in := &CreatePurchaseInput{
		PurchaseDate:  "30-08-2026",
		PaymentStatus: "overdue",
		Lines: []PurchaseLineInput{
			{Quantity: 0, ProfitMargin: decimal.NewFromInt(150)},
		},
	}

	_, err := s.Create(in, nil, testActor(), RequestMeta{})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "supplier_id")
	assert.Contains(t, verr.Fields, "business_location_id")
	assert.Contains(t, verr.Fields, "purchase_date")
	assert.Contains(t, verr.Fields, "payment_status")
	assert.Contains(t, verr.Fields, "inventory_items.0.quantity")
	assert.Contains(t, verr.Fields, "inventory_items.0.profit_margin")

	m.purchases.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePurchaseRejectsDanglingReferences(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	supplierID, locationID, productID := uuid.New(), uuid.New(), uuid.New()
	in := validCreateInput(supplierID, locationID, productID)

	m.suppliers.On("Exists", supplierID).Return(false, nil)
	m.locations.On("Exists", locationID).Return(true, nil)
	m.products.On("Exists", productID).Return(false, nil)

	_, err := s.Create(in, nil, testActor(), RequestMeta{})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "supplier_id")
	assert.Contains(t, verr.Fields, "inventory_items.0.product_id")
	assert.NotContains(t, verr.Fields, "business_location_id")
}

func TestReceiveStockWritesLotsOnce(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	purchaseID, productID := uuid.New(), uuid.New()
	existing := &model.Purchase{
		SupplierID:         uuid.New(),
		BusinessLocationID: uuid.New(),
		Status:             model.PurchaseOrdered,
	}
	existing.ID = purchaseID

	in := &ReceiveStockInput{
		Lines: []ReceiveLineInput{
			{
				ProductID:        productID,
				Quantity:         5,
				PurchasePrice:    decimal.NewFromInt(20),
				TaxAmount:        decimal.NewFromInt(3),
				ProfitAmount:     decimal.NewFromInt(4),
				OneItemAmount:    decimal.NewFromInt(27),
				TotalOrderAmount: decimal.NewFromInt(135),
			},
		},
	}

	m.products.On("Exists", productID).Return(true, nil)
	m.purchases.On("FindForUpdate", mock.Anything, purchaseID).Return(existing, nil)
	m.purchases.On("MarkReceived", mock.Anything, purchaseID).Return(int64(1), nil)
	m.lots.On("CreateLots", mock.Anything, mock.MatchedBy(func(lots []model.InventoryLot) bool {
		return len(lots) == 1 && lots[0].PurchaseID == purchaseID && lots[0].Quantity == 5
	})).Return(nil)
	m.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.PurchaseAuditLog) bool {
		return e.Action == model.AuditUpdated
	})).Return(nil)
	m.purchases.On("FindByID", purchaseID).Return(existing, nil)

	_, err := s.ReceiveStock(purchaseID, in, testActor(), RequestMeta{})
	assert.NoError(t, err)
	m.lots.AssertExpectations(t)
}

func TestReceiveStockRejectsNonOrderedPurchase(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	purchaseID, productID := uuid.New(), uuid.New()
	existing := &model.Purchase{Status: model.PurchaseReceived}
	existing.ID = purchaseID

	in := &ReceiveStockInput{
		Lines: []ReceiveLineInput{{ProductID: productID, Quantity: 1}},
	}

	m.products.On("Exists", productID).Return(true, nil)
	m.purchases.On("FindForUpdate", mock.Anything, purchaseID).Return(existing, nil)
	// a second receive finds zero rows in ordered status
	m.purchases.On("MarkReceived", mock.Anything, purchaseID).Return(int64(0), nil)

	_, err := s.ReceiveStock(purchaseID, in, testActor(), RequestMeta{})

	var rerr *RuleError
	assert.ErrorAs(t, err, &rerr)
	m.lots.AssertNotCalled(t, "CreateLots", mock.Anything, mock.Anything)
}

func TestReceiveStockNotFound(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	purchaseID, productID := uuid.New(), uuid.New()
	in := &ReceiveStockInput{
		Lines: []ReceiveLineInput{{ProductID: productID, Quantity: 1}},
	}

	m.products.On("Exists", productID).Return(true, nil)
	m.purchases.On("FindForUpdate", mock.Anything, purchaseID).Return(nil, gorm.ErrRecordNotFound)

	_, err := s.ReceiveStock(purchaseID, in, testActor(), RequestMeta{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePurchaseGuards(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		purchase func(id uuid.UUID) *model.Purchase
		lots     []model.InventoryLot
	}{
		{
			name: "older than thirty days",
			purchase: func(id uuid.UUID) *model.Purchase {
				p := &model.Purchase{Status: model.PurchaseOrdered}
				p.ID = id
				p.CreatedAt = now.AddDate(0, 0, -31)
				return p
			},
		},
		{
			name: "received status",
			purchase: func(id uuid.UUID) *model.Purchase {
				p := &model.Purchase{Status: model.PurchaseReceived}
				p.ID = id
				p.CreatedAt = now.AddDate(0, 0, -1)
				return p
			},
		},
		{
			name: "sold stock",
			purchase: func(id uuid.UUID) *model.Purchase {
				p := &model.Purchase{Status: model.PurchaseOrdered}
				p.ID = id
				p.CreatedAt = now.AddDate(0, 0, -1)
				return p
			},
			lots: []model.InventoryLot{{Quantity: 10, SoldQuantity: 3}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newTestPurchaseService(now)
			purchaseID := uuid.New()

			m.purchases.On("FindForUpdate", mock.Anything, purchaseID).Return(tc.purchase(purchaseID), nil)
			if tc.lots != nil {
				m.lots.On("FindByPurchase", mock.Anything, purchaseID).Return(tc.lots, nil)
			}

			err := s.Delete(purchaseID, testActor(), RequestMeta{})

			var rerr *RuleError
			assert.ErrorAs(t, err, &rerr)
			m.purchases.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
		})
	}
}

func TestDeletePurchaseRemovesLotsAndDocument(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	purchaseID := uuid.New()
	purchase := &model.Purchase{Status: model.PurchaseOrdered, Document: "invoice-123.pdf"}
	purchase.ID = purchaseID
	purchase.CreatedAt = now.AddDate(0, 0, -5)

	m.purchases.On("FindForUpdate", mock.Anything, purchaseID).Return(purchase, nil)
	m.lots.On("FindByPurchase", mock.Anything, purchaseID).Return([]model.InventoryLot{{Quantity: 4}}, nil)
	m.lots.On("DeleteByPurchase", mock.Anything, purchaseID).Return(nil)
	m.purchases.On("SoftDelete", mock.Anything, purchaseID).Return(nil)
	m.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.PurchaseAuditLog) bool {
		return e.Action == model.AuditDeleted
	})).Return(nil)

	err := s.Delete(purchaseID, testActor(), RequestMeta{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"invoice-123.pdf"}, m.docs.removed)
	m.purchases.AssertExpectations(t)
}

func TestRestorePurchase(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	purchaseID := uuid.New()
	deleted := &model.Purchase{Status: model.PurchaseOrdered}
	deleted.ID = purchaseID
	deleted.DeletedAt = gorm.DeletedAt{Time: now.AddDate(0, 0, -1), Valid: true}

	m.purchases.On("FindByIDUnscoped", purchaseID).Return(deleted, nil)
	m.purchases.On("Restore", mock.Anything, purchaseID).Return(nil)
	m.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *model.PurchaseAuditLog) bool {
		return e.Action == model.AuditRestored
	})).Return(nil)
	m.purchases.On("FindByID", purchaseID).Return(deleted, nil)

	_, err := s.Restore(purchaseID, testActor(), RequestMeta{})
	assert.NoError(t, err)
	m.audit.AssertExpectations(t)
}

func TestRestoreRejectsLivePurchase(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	purchaseID := uuid.New()
	live := &model.Purchase{Status: model.PurchaseOrdered}
	live.ID = purchaseID

	m.purchases.On("FindByIDUnscoped", purchaseID).Return(live, nil)

	_, err := s.Restore(purchaseID, testActor(), RequestMeta{})

	var rerr *RuleError
	assert.ErrorAs(t, err, &rerr)
	m.purchases.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything)
}

func TestUpdatePurchaseRecomputesDueFromExistingTotal(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	purchaseID := uuid.New()
	supplierID, locationID := uuid.New(), uuid.New()
	existing := &model.Purchase{
		SupplierID:         supplierID,
		BusinessLocationID: locationID,
		TotalAmount:        decimal.NewFromInt(200),
		PaidAmount:         decimal.NewFromInt(50),
		DueAmount:          decimal.NewFromInt(150),
		Status:             model.PurchaseOrdered,
		PaymentStatus:      model.PaymentPartial,
	}
	existing.ID = purchaseID

	in := &UpdatePurchaseInput{
		SupplierID:         supplierID,
		BusinessLocationID: locationID,
		PurchaseDate:       "2026-08-30",
		PaidAmount:         decimal.NewFromInt(120),
		PaymentStatus:      model.PaymentPartial,
		Status:             model.PurchaseOrdered,
	}

	m.suppliers.On("Exists", supplierID).Return(true, nil)
	m.locations.On("Exists", locationID).Return(true, nil)
	m.purchases.On("FindForUpdate", mock.Anything, purchaseID).Return(existing, nil)

	var updates map[string]interface{}
	m.purchases.On("Updates", mock.Anything, purchaseID, mock.Anything).
		Run(func(args mock.Arguments) {
			updates = args.Get(2).(map[string]interface{})
		}).Return(nil)
	m.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.purchases.On("FindByID", purchaseID).Return(existing, nil)

	_, err := s.Update(purchaseID, in, nil, testActor(), RequestMeta{})
	assert.NoError(t, err)

	due := updates["due_amount"].(decimal.Decimal)
	assert.True(t, due.Equal(decimal.NewFromInt(80)), "due got %s", due)
}

func TestListUsesFixedPageSize(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s, m := newTestPurchaseService(now)

	filter := repository.PurchaseFilter{Status: string(model.PurchaseOrdered)}
	m.purchases.On("List", filter, 3, PurchasesPerPage).Return([]model.Purchase{}, int64(47), nil)

	page, err := s.List(filter, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, PurchasesPerPage, page.PerPage)
	assert.Equal(t, int64(47), page.Total)
}
