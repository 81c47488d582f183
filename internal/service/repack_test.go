package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

func testRepack() *domain.ChangeInventory {
	return &domain.ChangeInventory{
		Name:        "CI-1",
		Company:     "Acme Rentals",
		PostingDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PostingTime: "10:00:00",
		SourceItem:  "SCAF-SET",
		SourceQty:   dec(1),
		Warehouse:   "Stores - AC",
		DocStatus:   domain.DocStatusDraft,
		Targets: []domain.ChangeInventoryLine{
			{Name: "CIL-1", ItemCode: "SCAF-FRAME", Qty: dec(4)},
			{Name: "CIL-2", ItemCode: "SCAF-BRACE", Qty: dec(8)},
		},
	}
}

func TestCreateRepack_TargetCannotBeSource(t *testing.T) {
	store := newMockStore()
	svc := NewRepackService(store)
	ctx := context.Background()

	c := testRepack()
	c.Targets[0].ItemCode = "SCAF-SET"
	store.catalog.On("GetItem", ctx, "SCAF-SET").Return(&domain.Item{Code: "SCAF-SET", Name: "Scaffolding Set"}, nil).Once()

	err := svc.CreateRepack(ctx, c)
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "target item cannot be the source item")
	store.assertExpectations(t)
}

func TestCreateRepack_DerivesNamesAndTotal(t *testing.T) {
	store := newMockStore()
	svc := NewRepackService(store)
	ctx := context.Background()

	c := testRepack()
	store.catalog.On("GetItem", ctx, "SCAF-SET").Return(&domain.Item{Code: "SCAF-SET", Name: "Scaffolding Set"}, nil).Once()
	store.catalog.On("GetItem", ctx, "SCAF-FRAME").Return(&domain.Item{Code: "SCAF-FRAME", Name: "Scaffolding Frame"}, nil).Once()
	store.catalog.On("GetItem", ctx, "SCAF-BRACE").Return(&domain.Item{Code: "SCAF-BRACE", Name: "Scaffolding Brace"}, nil).Once()
	store.repacks.On("Create", ctx, c).Return(nil).Once()

	err := svc.CreateRepack(ctx, c)
	assert.NoError(t, err)
	assert.Equal(t, "Scaffolding Set", c.SourceItemName)
	assert.True(t, c.TotalTargetQty.Equal(dec(12)))
	store.assertExpectations(t)
}

func TestSubmitRepack_InsufficientStockFails(t *testing.T) {
	store := newMockStore()
	svc := NewRepackService(store)
	ctx := context.Background()

	c := testRepack()
	c.SourceQty = dec(5)
	store.repacks.On("GetByName", ctx, "CI-1").Return(c, nil).Once()
	store.catalog.On("GetItem", ctx, mock.Anything).Return(&domain.Item{Name: "x"}, nil)
	store.repacks.On("Update", ctx, mock.Anything).Return(nil).Once()
	store.stock.On("Balance", ctx, "SCAF-SET", "Stores - AC", c.PostingDate, "10:00:00").Return(dec(3), nil).Once()

	err := svc.SubmitRepack(ctx, "CI-1")
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "insufficient stock of SCAF-SET in Stores - AC: 3 available, 5 required")
	store.assertExpectations(t)
}

func TestSubmitRepack_PostsConsumeAndProduceLines(t *testing.T) {
	store := newMockStore()
	svc := NewRepackService(store)
	ctx := context.Background()

	c := testRepack()
	store.repacks.On("GetByName", ctx, "CI-1").Return(c, nil).Once()
	store.catalog.On("GetItem", ctx, mock.Anything).Return(&domain.Item{Name: "x"}, nil)
	store.repacks.On("Update", ctx, mock.MatchedBy(func(u *domain.ChangeInventory) bool {
		return u.DocStatus == domain.DocStatusSubmitted
	})).Return(nil).Once()
	store.stock.On("Balance", ctx, "SCAF-SET", "Stores - AC", c.PostingDate, "10:00:00").Return(dec(2), nil).Once()
	store.stock.On("CreateEntry", ctx, mock.MatchedBy(func(e *domain.StockEntry) bool {
		return e.Type == domain.StockEntryTypeRepack && e.ChangeInventory == "CI-1" &&
			len(e.Lines) == 3 &&
			e.Lines[0].SourceWarehouse == "Stores - AC" && !e.Lines[0].IsFinishedItem &&
			e.Lines[1].TargetWarehouse == "Stores - AC" && e.Lines[1].IsFinishedItem &&
			e.Lines[2].IsFinishedItem
	})).Return(nil).Once()
	store.stock.On("InsertLedgerEntries", ctx, mock.MatchedBy(func(rows []domain.StockLedgerEntry) bool {
		return len(rows) == 3 &&
			rows[0].Qty.Equal(dec(-1)) &&
			rows[1].Qty.Equal(dec(4)) &&
			rows[2].Qty.Equal(dec(8))
	})).Return(nil).Once()

	err := svc.SubmitRepack(ctx, "CI-1")
	assert.NoError(t, err)
	store.assertExpectations(t)
}

func TestCancelRepack_RemovesStockEntries(t *testing.T) {
	store := newMockStore()
	svc := NewRepackService(store)
	ctx := context.Background()

	c := testRepack()
	c.DocStatus = domain.DocStatusSubmitted
	store.repacks.On("GetByName", ctx, "CI-1").Return(c, nil).Once()
	store.repacks.On("Update", ctx, mock.MatchedBy(func(u *domain.ChangeInventory) bool {
		return u.DocStatus == domain.DocStatusCancelled
	})).Return(nil).Once()
	store.stock.On("ListEntriesByReference", ctx, repository.StockRefChangeInventory, "CI-1").Return([]domain.StockEntry{
		{Name: "SE-7"},
	}, nil).Once()
	store.stock.On("DeleteLedgerEntriesForEntry", ctx, "SE-7").Return(nil).Once()
	store.stock.On("UpdateEntryStatus", ctx, "SE-7", domain.DocStatusCancelled).Return(nil).Once()
	store.stock.On("DeleteEntry", ctx, "SE-7").Return(nil).Once()

	err := svc.CancelRepack(ctx, "CI-1")
	assert.NoError(t, err)
	store.assertExpectations(t)
}
