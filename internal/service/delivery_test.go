package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

func testDelivery() *domain.RentalDelivery {
	return &domain.RentalDelivery{
		Name:            "RD-1",
		Company:         "Acme Rentals",
		Order:           "RO-1",
		PostingDate:     time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		PostingTime:     "09:00:00",
		SourceWarehouse: "Stores - AC",
		RentedWarehouse: "Rented - AC",
		DocStatus:       domain.DocStatusDraft,
		Status:          domain.DeliveryStatusDraft,
		Lines: []domain.RentalDeliveryLine{
			{
				Name:      "RDL-1",
				ItemCode:  "EXC-001",
				Qty:       dec(5),
				Rate:      dec(300),
				Order:     "RO-1",
				OrderLine: "ROL-1",
			},
		},
	}
}

func TestCreateDelivery_DerivesTotals(t *testing.T) {
	store := newMockStore()
	svc := NewDeliveryService(store)
	ctx := context.Background()

	d := testDelivery()
	store.orders.On("GetByName", ctx, "RO-1").Return(testOrder(), nil).Once()
	store.ledger.On("TotalDelivered", ctx, "RO-1", "ROL-1").Return(decimal.Zero, nil).Once()
	store.catalog.On("GetItem", ctx, "EXC-001").Return(&domain.Item{Code: "EXC-001", Name: "Excavator"}, nil).Once()
	store.deliveries.On("Create", ctx, d).Return(nil).Once()

	err := svc.CreateDelivery(ctx, d)
	assert.NoError(t, err)
	assert.True(t, d.TotalQty.Equal(dec(5)))
	assert.True(t, d.GrandTotal.Equal(dec(1500)))
	assert.True(t, d.Lines[0].Amount.Equal(dec(1500)))
	assert.True(t, d.Lines[0].PendingQty.Equal(dec(5)))
	assert.Equal(t, "Excavator", d.Lines[0].ItemName)
	store.assertExpectations(t)
}

func TestCreateDelivery_ExceedsRemainingFails(t *testing.T) {
	store := newMockStore()
	svc := NewDeliveryService(store)
	ctx := context.Background()

	d := testDelivery()
	d.Lines[0].Qty = dec(5)
	store.orders.On("GetByName", ctx, "RO-1").Return(testOrder(), nil).Once()
	// 8 of 10 already delivered, only 2 remain.
	store.ledger.On("TotalDelivered", ctx, "RO-1", "ROL-1").Return(dec(8), nil).Once()

	err := svc.CreateDelivery(ctx, d)
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "only 2 remaining")
	store.assertExpectations(t)
}

func TestSubmitDelivery_PostsStockAndReconciles(t *testing.T) {
	store := newMockStore()
	svc := NewDeliveryService(store)
	ctx := context.Background()

	d := testDelivery()
	order := testOrder()
	store.deliveries.On("GetByName", ctx, "RD-1").Return(d, nil).Once()
	store.orders.On("GetByName", ctx, "RO-1").Return(order, nil).Twice()
	store.ledger.On("TotalDelivered", ctx, "RO-1", "ROL-1").Return(decimal.Zero, nil).Once()
	store.catalog.On("GetItem", ctx, "EXC-001").Return(&domain.Item{Code: "EXC-001", Name: "Excavator"}, nil).Once()
	store.deliveries.On("Update", ctx, mock.MatchedBy(func(u *domain.RentalDelivery) bool {
		return u.DocStatus == domain.DocStatusSubmitted && u.Status == domain.DeliveryStatusDelivered
	})).Return(nil).Once()

	store.stock.On("Balance", ctx, "EXC-001", "Stores - AC", d.PostingDate, "09:00:00").Return(dec(10), nil).Once()
	store.stock.On("CreateEntry", ctx, mock.MatchedBy(func(e *domain.StockEntry) bool {
		return e.Type == domain.StockEntryTypeTransfer && e.RentalDelivery == "RD-1" && len(e.Lines) == 1
	})).Return(nil).Once()
	store.stock.On("InsertLedgerEntries", ctx, mock.MatchedBy(func(rows []domain.StockLedgerEntry) bool {
		return len(rows) == 2 &&
			rows[0].Warehouse == "Stores - AC" && rows[0].Qty.Equal(dec(-5)) &&
			rows[1].Warehouse == "Rented - AC" && rows[1].Qty.Equal(dec(5))
	})).Return(nil).Once()

	// Reconciliation after the stock movement.
	store.ledger.On("TotalDelivered", ctx, "RO-1", "ROL-1").Return(dec(5), nil).Once()
	store.ledger.On("TotalReturned", ctx, "RO-1", "ROL-1", "", "").Return(decimal.Zero, nil).Once()
	store.orders.On("UpdateLineDerived", ctx, mock.Anything).Return(nil).Once()
	store.ledger.On("LastBilledDate", ctx, "RO-1").Return(nil, nil).Once()
	store.ledger.On("TotalDepositUsed", ctx, "RO-1").Return(decimal.Zero, nil).Once()
	store.orders.On("UpdateDerived", ctx, mock.MatchedBy(func(o *domain.RentalOrder) bool {
		return o.Status == domain.OrderStatusToDeliver
	})).Return(nil).Once()

	err := svc.SubmitDelivery(ctx, "RD-1")
	assert.NoError(t, err)
	store.assertExpectations(t)
}

func TestSubmitDelivery_InsufficientStockFails(t *testing.T) {
	store := newMockStore()
	svc := NewDeliveryService(store)
	ctx := context.Background()

	d := testDelivery()
	store.deliveries.On("GetByName", ctx, "RD-1").Return(d, nil).Once()
	store.orders.On("GetByName", ctx, "RO-1").Return(testOrder(), nil).Once()
	store.ledger.On("TotalDelivered", ctx, "RO-1", "ROL-1").Return(decimal.Zero, nil).Once()
	store.catalog.On("GetItem", ctx, "EXC-001").Return(&domain.Item{Code: "EXC-001", Name: "Excavator"}, nil).Once()
	store.deliveries.On("Update", ctx, mock.Anything).Return(nil).Once()
	store.stock.On("Balance", ctx, "EXC-001", "Stores - AC", d.PostingDate, "09:00:00").Return(dec(3), nil).Once()

	err := svc.SubmitDelivery(ctx, "RD-1")
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "insufficient stock of EXC-001 in Stores - AC")
	store.assertExpectations(t)
}

func TestCancelDelivery_BlockedByReturns(t *testing.T) {
	store := newMockStore()
	svc := NewDeliveryService(store)
	ctx := context.Background()

	d := testDelivery()
	d.DocStatus = domain.DocStatusSubmitted
	d.Status = domain.DeliveryStatusDelivered
	d.Lines[0].ReturnedQty = dec(2)
	store.deliveries.On("GetByName", ctx, "RD-1").Return(d, nil).Once()

	err := svc.CancelDelivery(ctx, "RD-1")
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "returns exist against it")
	store.assertExpectations(t)
}

func TestCancelDelivery_RemovesStockEntries(t *testing.T) {
	store := newMockStore()
	svc := NewDeliveryService(store)
	ctx := context.Background()

	d := testDelivery()
	d.DocStatus = domain.DocStatusSubmitted
	d.Status = domain.DeliveryStatusDelivered
	store.deliveries.On("GetByName", ctx, "RD-1").Return(d, nil).Once()
	store.deliveries.On("Update", ctx, mock.MatchedBy(func(u *domain.RentalDelivery) bool {
		return u.DocStatus == domain.DocStatusCancelled && u.Status == domain.DeliveryStatusCancelled
	})).Return(nil).Once()

	store.stock.On("ListEntriesByReference", ctx, repository.StockRefDelivery, "RD-1").Return([]domain.StockEntry{
		{Name: "SE-1"},
	}, nil).Once()
	store.stock.On("DeleteLedgerEntriesForEntry", ctx, "SE-1").Return(nil).Once()
	store.stock.On("UpdateEntryStatus", ctx, "SE-1", domain.DocStatusCancelled).Return(nil).Once()
	store.stock.On("DeleteEntry", ctx, "SE-1").Return(nil).Once()

	order := testOrder()
	store.orders.On("GetByName", ctx, "RO-1").Return(order, nil).Once()
	store.ledger.On("TotalDelivered", ctx, "RO-1", "ROL-1").Return(decimal.Zero, nil).Once()
	store.ledger.On("TotalReturned", ctx, "RO-1", "ROL-1", "", "").Return(decimal.Zero, nil).Once()
	store.orders.On("UpdateLineDerived", ctx, mock.Anything).Return(nil).Once()
	store.ledger.On("LastBilledDate", ctx, "RO-1").Return(nil, nil).Once()
	store.ledger.On("TotalDepositUsed", ctx, "RO-1").Return(decimal.Zero, nil).Once()
	store.orders.On("UpdateDerived", ctx, mock.Anything).Return(nil).Once()

	err := svc.CancelDelivery(ctx, "RD-1")
	assert.NoError(t, err)
	store.assertExpectations(t)
}

func TestCreateDeliveryFromOrder_NothingLeft(t *testing.T) {
	store := newMockStore()
	svc := NewDeliveryService(store)
	ctx := context.Background()

	order := testOrder()
	order.Lines[0].DeliveredQty = dec(10)
	store.orders.On("GetByName", ctx, "RO-1").Return(order, nil).Once()
	store.settings.On("Get", ctx).Return(testSettings(), nil).Once()

	_, err := svc.CreateDeliveryFromOrder(ctx, "RO-1", time.Now().UTC())
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "nothing left to deliver")
	store.assertExpectations(t)
}
