package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
)

func TestCreateMonthlyRentalInvoices_ProRata(t *testing.T) {
	store := newMockStore()
	svc := NewBillingService(store)
	ctx := context.Background()

	order := testOrder()
	store.orders.On("ListActive", ctx).Return([]domain.RentalOrder{*order}, nil).Once()

	d := submittedDelivery()
	d.Lines[0].Qty = dec(10)
	d.Lines[0].PendingQty = dec(10)
	store.ledger.On("PendingDeliveryNames", ctx, "RO-1").Return([]string{"RD-1"}, nil).Once()
	store.deliveries.On("GetByName", ctx, "RD-1").Return(d, nil).Once()

	// 15 days at a tenth of the 300 monthly rate per day.
	store.invoices.On("Create", ctx, mock.MatchedBy(func(inv *domain.SalesInvoice) bool {
		return len(inv.Lines) == 1 &&
			inv.Lines[0].Qty.Equal(dec(10)) &&
			inv.Lines[0].Rate.Equal(dec(10)) &&
			inv.Lines[0].Amount.Equal(dec(150)) &&
			inv.GrandTotal.Equal(dec(150))
	})).Return(nil).Once()
	store.invoices.On("Update", ctx, mock.MatchedBy(func(inv *domain.SalesInvoice) bool {
		return inv.DocStatus == domain.DocStatusSubmitted
	})).Return(nil).Once()

	asOf := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	billed := asOf
	store.orders.On("GetByName", ctx, "RO-1").Return(order, nil).Once()
	store.ledger.On("TotalDelivered", ctx, "RO-1", "ROL-1").Return(dec(10), nil).Once()
	store.ledger.On("TotalReturned", ctx, "RO-1", "ROL-1", "", "").Return(decimal.Zero, nil).Once()
	store.orders.On("UpdateLineDerived", ctx, mock.Anything).Return(nil).Once()
	store.ledger.On("LastBilledDate", ctx, "RO-1").Return(&billed, nil).Once()
	store.ledger.On("TotalDepositUsed", ctx, "RO-1").Return(decimal.Zero, nil).Once()
	store.orders.On("UpdateDerived", ctx, mock.MatchedBy(func(o *domain.RentalOrder) bool {
		return o.LastBilledDate != nil && o.LastBilledDate.Equal(asOf)
	})).Return(nil).Once()

	created, err := svc.CreateMonthlyRentalInvoices(ctx, asOf)
	assert.NoError(t, err)
	assert.Len(t, created, 1)
	store.assertExpectations(t)
}

func TestCreateMonthlyRentalInvoices_NothingToBill(t *testing.T) {
	store := newMockStore()
	svc := NewBillingService(store)
	ctx := context.Background()

	asOf := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	alreadyBilled := testOrder()
	alreadyBilled.LastBilledDate = &asOf
	noPending := testOrder()
	noPending.Name = "RO-2"
	noPending.Lines[0].Order = "RO-2"

	store.orders.On("ListActive", ctx).Return([]domain.RentalOrder{*alreadyBilled, *noPending}, nil).Once()
	store.ledger.On("PendingDeliveryNames", ctx, "RO-2").Return([]string{}, nil).Once()

	created, err := svc.CreateMonthlyRentalInvoices(ctx, asOf)
	assert.NoError(t, err)
	assert.Empty(t, created)
	store.assertExpectations(t)
}

func TestCreateInvoiceFromDelivery_BillsPendingQty(t *testing.T) {
	store := newMockStore()
	svc := NewBillingService(store)
	ctx := context.Background()

	d := submittedDelivery()
	d.Lines[0].ReturnedQty = dec(2)
	d.Lines[0].PendingQty = dec(3)
	store.deliveries.On("GetByName", ctx, "RD-1").Return(d, nil).Once()
	store.orders.On("GetByName", ctx, "RO-1").Return(testOrder(), nil).Once()
	store.invoices.On("Create", ctx, mock.MatchedBy(func(inv *domain.SalesInvoice) bool {
		return len(inv.Lines) == 1 &&
			inv.Lines[0].Qty.Equal(dec(3)) &&
			inv.Lines[0].Amount.Equal(dec(900)) &&
			inv.DocStatus == domain.DocStatusDraft
	})).Return(nil).Once()

	inv, err := svc.CreateInvoiceFromDelivery(ctx, "RD-1", time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.True(t, inv.GrandTotal.Equal(dec(900)))
	assert.Equal(t, inv.PostingDate.AddDate(0, 0, 30), inv.DueDate)
	store.assertExpectations(t)
}

func TestCreateInvoice_UpdateStockRejected(t *testing.T) {
	store := newMockStore()
	svc := NewBillingService(store)
	ctx := context.Background()

	err := svc.CreateInvoice(ctx, &domain.SalesInvoice{
		Customer:    "Jordan Builders",
		Order:       "RO-1",
		UpdateStock: true,
		Lines:       []domain.SalesInvoiceLine{{ItemCode: "EXC-001", Qty: dec(1), Amount: dec(10)}},
	})
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "must not update stock")
	store.assertExpectations(t)
}

func TestCancelInvoice_OnlyLatestAllowed(t *testing.T) {
	store := newMockStore()
	svc := NewBillingService(store)
	ctx := context.Background()

	inv := &domain.SalesInvoice{
		Name:        "SINV-1",
		Order:       "RO-1",
		PostingDate: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
		DocStatus:   domain.DocStatusSubmitted,
		Status:      domain.InvoiceStatusSubmitted,
	}
	later := time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)
	store.invoices.On("GetByName", ctx, "SINV-1").Return(inv, nil).Once()
	store.ledger.On("LastBilledDate", ctx, "RO-1").Return(&later, nil).Once()

	err := svc.CancelInvoice(ctx, "SINV-1")
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "only the latest invoice")
	store.assertExpectations(t)
}

func TestCancelInvoice_LatestReopensBilling(t *testing.T) {
	store := newMockStore()
	svc := NewBillingService(store)
	ctx := context.Background()

	posting := time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)
	inv := &domain.SalesInvoice{
		Name:        "SINV-2",
		Customer:    "Jordan Builders",
		Order:       "RO-1",
		PostingDate: posting,
		DocStatus:   domain.DocStatusSubmitted,
		Status:      domain.InvoiceStatusSubmitted,
	}
	store.invoices.On("GetByName", ctx, "SINV-2").Return(inv, nil).Once()
	store.ledger.On("LastBilledDate", ctx, "RO-1").Return(&posting, nil).Once()
	store.invoices.On("Update", ctx, mock.MatchedBy(func(u *domain.SalesInvoice) bool {
		return u.DocStatus == domain.DocStatusCancelled && u.Status == domain.InvoiceStatusCancelled
	})).Return(nil).Once()

	order := testOrder()
	earlier := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	store.orders.On("GetByName", ctx, "RO-1").Return(order, nil).Once()
	store.ledger.On("TotalDelivered", ctx, "RO-1", "ROL-1").Return(dec(10), nil).Once()
	store.ledger.On("TotalReturned", ctx, "RO-1", "ROL-1", "", "").Return(decimal.Zero, nil).Once()
	store.orders.On("UpdateLineDerived", ctx, mock.Anything).Return(nil).Once()
	store.ledger.On("LastBilledDate", ctx, "RO-1").Return(&earlier, nil).Once()
	store.ledger.On("TotalDepositUsed", ctx, "RO-1").Return(decimal.Zero, nil).Once()
	store.orders.On("UpdateDerived", ctx, mock.MatchedBy(func(o *domain.RentalOrder) bool {
		return o.LastBilledDate != nil && o.LastBilledDate.Equal(earlier)
	})).Return(nil).Once()

	err := svc.CancelInvoice(ctx, "SINV-2")
	assert.NoError(t, err)
	store.assertExpectations(t)
}

func TestDaysBetween_TruncatesToDates(t *testing.T) {
	a := time.Date(2026, 1, 1, 23, 50, 0, 0, time.UTC)
	b := time.Date(2026, 1, 16, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, 15, daysBetween(a, b))
	assert.Equal(t, 0, daysBetween(b, b))
	assert.Equal(t, -15, daysBetween(b, a))
}
