package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rentalops-backend/internal/domain"
)

func TestRentalReconciliation_BuildsEventColumns(t *testing.T) {
	store := newMockStore()
	svc := NewReportService(store)
	ctx := context.Background()

	order := testOrder()
	order.Status = domain.OrderStatusToBill
	order.Lines[0].DeliveredQty = dec(10)
	order.Lines[0].ReturnedQty = dec(4)
	store.orders.On("GetByName", ctx, "RO-1").Return(order, nil).Once()

	d1 := submittedDelivery()
	d1.Lines[0].Qty = dec(10)
	d2 := submittedDelivery()
	d2.Name = "RD-0"
	d2.DocStatus = domain.DocStatusCancelled
	store.deliveries.On("ListByOrder", ctx, "RO-1").Return([]domain.RentalDelivery{*d2, *d1}, nil).Once()

	r1 := testReturn()
	r1.DocStatus = domain.DocStatusSubmitted
	store.returns.On("ListByOrderSince", ctx, "RO-1", (*time.Time)(nil)).Return([]domain.RentalReturn{*r1}, nil).Once()

	report, err := svc.RentalReconciliation(ctx, "RO-1")
	assert.NoError(t, err)
	assert.Equal(t, "RO-1", report.Order)
	assert.Equal(t, domain.OrderStatusToBill, report.Status)

	// Three fixed leading columns, one per submitted document, three
	// trailing totals. The cancelled delivery contributes nothing.
	assert.Len(t, report.Columns, 8)
	assert.Equal(t, "delivered_RD-1", report.Columns[3].Key)
	assert.Equal(t, "returned_RR-1", report.Columns[4].Key)

	assert.Len(t, report.Rows, 2)
	row := report.Rows[0]
	assert.Equal(t, "EXC-001", row["item_code"])
	assert.True(t, row["delivered_RD-1"].(decimal.Decimal).Equal(dec(10)))
	assert.True(t, row["returned_RR-1"].(decimal.Decimal).Equal(dec(4)))
	assert.True(t, row["balance_qty"].(decimal.Decimal).Equal(dec(6)))

	total := report.Rows[1]
	assert.Equal(t, "Total", total["item_code"])
	assert.True(t, total["delivered_qty"].(decimal.Decimal).Equal(dec(10)))
	assert.True(t, total["returned_qty"].(decimal.Decimal).Equal(dec(4)))
	store.assertExpectations(t)
}
