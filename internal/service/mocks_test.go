package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

// mockStore satisfies repository.Store with one testify mock per
// repository. WithinTx simply runs the callback against the same store,
// mirroring how the real store reuses an open transaction.
type mockStore struct {
	orders     *MockOrderRepo
	deliveries *MockDeliveryRepo
	returns    *MockReturnRepo
	repacks    *MockRepackRepo
	hired      *MockHiredItemsRepo
	invoices   *MockInvoiceRepo
	stock      *MockStockRepo
	settings   *MockSettingsRepo
	catalog    *MockCatalogRepo
	ledger     *MockLedgerRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		orders:     new(MockOrderRepo),
		deliveries: new(MockDeliveryRepo),
		returns:    new(MockReturnRepo),
		repacks:    new(MockRepackRepo),
		hired:      new(MockHiredItemsRepo),
		invoices:   new(MockInvoiceRepo),
		stock:      new(MockStockRepo),
		settings:   new(MockSettingsRepo),
		catalog:    new(MockCatalogRepo),
		ledger:     new(MockLedgerRepo),
	}
}

func (s *mockStore) Orders() repository.OrderRepository          { return s.orders }
func (s *mockStore) Deliveries() repository.DeliveryRepository   { return s.deliveries }
func (s *mockStore) Returns() repository.ReturnRepository        { return s.returns }
func (s *mockStore) Repacks() repository.RepackRepository        { return s.repacks }
func (s *mockStore) HiredItems() repository.HiredItemsRepository { return s.hired }
func (s *mockStore) Invoices() repository.InvoiceRepository      { return s.invoices }
func (s *mockStore) Stock() repository.StockRepository           { return s.stock }
func (s *mockStore) Settings() repository.SettingsRepository     { return s.settings }
func (s *mockStore) Catalog() repository.CatalogRepository       { return s.catalog }
func (s *mockStore) Ledger() repository.LedgerRepository         { return s.ledger }

func (s *mockStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

func (s *mockStore) assertExpectations(t mock.TestingT) {
	s.orders.AssertExpectations(t)
	s.deliveries.AssertExpectations(t)
	s.returns.AssertExpectations(t)
	s.repacks.AssertExpectations(t)
	s.hired.AssertExpectations(t)
	s.invoices.AssertExpectations(t)
	s.stock.AssertExpectations(t)
	s.settings.AssertExpectations(t)
	s.catalog.AssertExpectations(t)
	s.ledger.AssertExpectations(t)
}

type MockOrderRepo struct{ mock.Mock }

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.RentalOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepo) GetByName(ctx context.Context, name string) (*domain.RentalOrder, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}

func (m *MockOrderRepo) UpdateDerived(ctx context.Context, order *domain.RentalOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepo) UpdateLineDerived(ctx context.Context, line *domain.RentalOrderLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockOrderRepo) ListActive(ctx context.Context) ([]domain.RentalOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalOrder), args.Error(1)
}

type MockDeliveryRepo struct{ mock.Mock }

func (m *MockDeliveryRepo) Create(ctx context.Context, d *domain.RentalDelivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepo) GetByName(ctx context.Context, name string) (*domain.RentalDelivery, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalDelivery), args.Error(1)
}

func (m *MockDeliveryRepo) Update(ctx context.Context, d *domain.RentalDelivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepo) UpdateLine(ctx context.Context, line *domain.RentalDeliveryLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockDeliveryRepo) ListByOrder(ctx context.Context, order string) ([]domain.RentalDelivery, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalDelivery), args.Error(1)
}

type MockReturnRepo struct{ mock.Mock }

func (m *MockReturnRepo) Create(ctx context.Context, r *domain.RentalReturn) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReturnRepo) GetByName(ctx context.Context, name string) (*domain.RentalReturn, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalReturn), args.Error(1)
}

func (m *MockReturnRepo) Update(ctx context.Context, r *domain.RentalReturn) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReturnRepo) ListByOrderSince(ctx context.Context, order string, since *time.Time) ([]domain.RentalReturn, error) {
	args := m.Called(ctx, order, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalReturn), args.Error(1)
}

func (m *MockReturnRepo) SetSecurityDepositReturned(ctx context.Context, name string, amount decimal.Decimal) error {
	return m.Called(ctx, name, amount).Error(0)
}

type MockRepackRepo struct{ mock.Mock }

func (m *MockRepackRepo) Create(ctx context.Context, c *domain.ChangeInventory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepackRepo) GetByName(ctx context.Context, name string) (*domain.ChangeInventory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChangeInventory), args.Error(1)
}

func (m *MockRepackRepo) Update(ctx context.Context, c *domain.ChangeInventory) error {
	return m.Called(ctx, c).Error(0)
}

type MockHiredItemsRepo struct{ mock.Mock }

func (m *MockHiredItemsRepo) Create(ctx context.Context, h *domain.HiredItems) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHiredItemsRepo) GetByName(ctx context.Context, name string) (*domain.HiredItems, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HiredItems), args.Error(1)
}

func (m *MockHiredItemsRepo) Update(ctx context.Context, h *domain.HiredItems) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHiredItemsRepo) UpdateLineReturnedQty(ctx context.Context, lineName string, qty decimal.Decimal) error {
	return m.Called(ctx, lineName, qty).Error(0)
}

type MockInvoiceRepo struct{ mock.Mock }

func (m *MockInvoiceRepo) Create(ctx context.Context, inv *domain.SalesInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepo) GetByName(ctx context.Context, name string) (*domain.SalesInvoice, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesInvoice), args.Error(1)
}

func (m *MockInvoiceRepo) Update(ctx context.Context, inv *domain.SalesInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

type MockStockRepo struct{ mock.Mock }

func (m *MockStockRepo) CreateEntry(ctx context.Context, e *domain.StockEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockStockRepo) UpdateEntryStatus(ctx context.Context, name string, status domain.DocStatus) error {
	return m.Called(ctx, name, status).Error(0)
}

func (m *MockStockRepo) DeleteEntry(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockStockRepo) ListEntriesByReference(ctx context.Context, ref repository.StockReference, value string) ([]domain.StockEntry, error) {
	args := m.Called(ctx, ref, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockEntry), args.Error(1)
}

func (m *MockStockRepo) InsertLedgerEntries(ctx context.Context, entries []domain.StockLedgerEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockStockRepo) DeleteLedgerEntriesForEntry(ctx context.Context, stockEntry string) error {
	return m.Called(ctx, stockEntry).Error(0)
}

func (m *MockStockRepo) Balance(ctx context.Context, itemCode, warehouse string, postingDate time.Time, postingTime string) (decimal.Decimal, error) {
	args := m.Called(ctx, itemCode, warehouse, postingDate, postingTime)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockSettingsRepo struct{ mock.Mock }

func (m *MockSettingsRepo) Get(ctx context.Context) (*domain.RentalSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalSettings), args.Error(1)
}

func (m *MockSettingsRepo) UpsertDefaults(ctx context.Context, row *domain.RentalDefaults) error {
	return m.Called(ctx, row).Error(0)
}

type MockCatalogRepo struct{ mock.Mock }

func (m *MockCatalogRepo) GetItem(ctx context.Context, code string) (*domain.Item, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockCatalogRepo) GetWarehouse(ctx context.Context, name string) (*domain.Warehouse, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Warehouse), args.Error(1)
}

func (m *MockCatalogRepo) WarehouseExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepo) CreateWarehouse(ctx context.Context, w *domain.Warehouse) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockCatalogRepo) GetAccount(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockCatalogRepo) GetCompany(ctx context.Context, name string) (*domain.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCatalogRepo) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

type MockLedgerRepo struct{ mock.Mock }

func (m *MockLedgerRepo) TotalDelivered(ctx context.Context, order, orderLine string) (decimal.Decimal, error) {
	args := m.Called(ctx, order, orderLine)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepo) TotalReturned(ctx context.Context, order, orderLine, delivery, deliveryLine string) (decimal.Decimal, error) {
	args := m.Called(ctx, order, orderLine, delivery, deliveryLine)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepo) TotalDepositUsed(ctx context.Context, order string) (decimal.Decimal, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepo) LastBilledDate(ctx context.Context, order string) (*time.Time, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockLedgerRepo) LastReturnName(ctx context.Context, order string) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerRepo) PendingDeliveryNames(ctx context.Context, order string) ([]string, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
