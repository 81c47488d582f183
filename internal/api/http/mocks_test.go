package http

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/service"
)

// MockOrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, order *domain.RentalOrder) error {
	return m.Called(ctx, order).Error(0)
}
func (m *MockOrderService) GetOrder(ctx context.Context, name string) (*domain.RentalOrder, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalOrder), args.Error(1)
}
func (m *MockOrderService) SubmitOrder(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockOrderService) Reconcile(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

// MockStockService
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) Balance(ctx context.Context, itemCode, warehouse string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, itemCode, warehouse, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBillingService
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) CreateInvoiceFromDelivery(ctx context.Context, delivery string, postingDate time.Time) (*domain.SalesInvoice, error) {
	args := m.Called(ctx, delivery, postingDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesInvoice), args.Error(1)
}
func (m *MockBillingService) CreateInvoice(ctx context.Context, inv *domain.SalesInvoice) error {
	return m.Called(ctx, inv).Error(0)
}
func (m *MockBillingService) GetInvoice(ctx context.Context, name string) (*domain.SalesInvoice, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalesInvoice), args.Error(1)
}
func (m *MockBillingService) SubmitInvoice(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockBillingService) CancelInvoice(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockBillingService) CreateMonthlyRentalInvoices(ctx context.Context, asOf time.Time) ([]string, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) RentalReconciliation(ctx context.Context, order string) (*service.ReconciliationReport, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconciliationReport), args.Error(1)
}
