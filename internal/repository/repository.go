package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
)

// Store bundles every repository and scopes them to one database handle.
// WithinTx runs fn against a transaction-bound Store: either every write
// inside commits, or none do. Submit and cancel flows always run inside
// WithinTx so companion records are never half-persisted.
type Store interface {
	Orders() OrderRepository
	Deliveries() DeliveryRepository
	Returns() ReturnRepository
	Repacks() RepackRepository
	HiredItems() HiredItemsRepository
	Invoices() InvoiceRepository
	Stock() StockRepository
	Settings() SettingsRepository
	Catalog() CatalogRepository
	Ledger() LedgerRepository

	WithinTx(ctx context.Context, fn func(Store) error) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.RentalOrder) error
	GetByName(ctx context.Context, name string) (*domain.RentalOrder, error)
	// UpdateDerived writes the reconciled header fields: status, the
	// all-delivered flag, last billed date and remaining deposit.
	UpdateDerived(ctx context.Context, order *domain.RentalOrder) error
	UpdateLineDerived(ctx context.Context, line *domain.RentalOrderLine) error
	ListActive(ctx context.Context) ([]domain.RentalOrder, error)
}

type DeliveryRepository interface {
	Create(ctx context.Context, d *domain.RentalDelivery) error
	GetByName(ctx context.Context, name string) (*domain.RentalDelivery, error)
	Update(ctx context.Context, d *domain.RentalDelivery) error
	UpdateLine(ctx context.Context, line *domain.RentalDeliveryLine) error
	ListByOrder(ctx context.Context, order string) ([]domain.RentalDelivery, error)
}

type ReturnRepository interface {
	Create(ctx context.Context, r *domain.RentalReturn) error
	GetByName(ctx context.Context, name string) (*domain.RentalReturn, error)
	Update(ctx context.Context, r *domain.RentalReturn) error
	// ListByOrderSince lists submitted returns for an order posted strictly
	// after since; a nil since lists them all.
	ListByOrderSince(ctx context.Context, order string, since *time.Time) ([]domain.RentalReturn, error)
	SetSecurityDepositReturned(ctx context.Context, name string, amount decimal.Decimal) error
}

type RepackRepository interface {
	Create(ctx context.Context, c *domain.ChangeInventory) error
	GetByName(ctx context.Context, name string) (*domain.ChangeInventory, error)
	Update(ctx context.Context, c *domain.ChangeInventory) error
}

type HiredItemsRepository interface {
	Create(ctx context.Context, h *domain.HiredItems) error
	GetByName(ctx context.Context, name string) (*domain.HiredItems, error)
	Update(ctx context.Context, h *domain.HiredItems) error
	UpdateLineReturnedQty(ctx context.Context, lineName string, qty decimal.Decimal) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.SalesInvoice) error
	GetByName(ctx context.Context, name string) (*domain.SalesInvoice, error)
	Update(ctx context.Context, inv *domain.SalesInvoice) error
}

// StockReference names the back-reference column linking a stock entry to
// the rental document that created it.
type StockReference string

const (
	StockRefDelivery        StockReference = "rental_delivery"
	StockRefReturn          StockReference = "rental_return"
	StockRefChangeInventory StockReference = "change_inventory"
	StockRefHiredItems      StockReference = "hired_items"
)

type StockRepository interface {
	CreateEntry(ctx context.Context, e *domain.StockEntry) error
	UpdateEntryStatus(ctx context.Context, name string, status domain.DocStatus) error
	DeleteEntry(ctx context.Context, name string) error
	ListEntriesByReference(ctx context.Context, ref StockReference, value string) ([]domain.StockEntry, error)
	InsertLedgerEntries(ctx context.Context, entries []domain.StockLedgerEntry) error
	DeleteLedgerEntriesForEntry(ctx context.Context, stockEntry string) error
	// Balance sums ledger quantity for an item and warehouse up to and
	// including the posting date/time.
	Balance(ctx context.Context, itemCode, warehouse string, postingDate time.Time, postingTime string) (decimal.Decimal, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.RentalSettings, error)
	UpsertDefaults(ctx context.Context, row *domain.RentalDefaults) error
}

type CatalogRepository interface {
	GetItem(ctx context.Context, code string) (*domain.Item, error)
	GetWarehouse(ctx context.Context, name string) (*domain.Warehouse, error)
	WarehouseExists(ctx context.Context, name string) (bool, error)
	CreateWarehouse(ctx context.Context, w *domain.Warehouse) error
	GetAccount(ctx context.Context, name string) (*domain.Account, error)
	GetCompany(ctx context.Context, name string) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// LedgerRepository is the read-only quantity ledger: pure aggregations over
// submitted documents. Unknown orders or lines yield zero, never an error.
type LedgerRepository interface {
	TotalDelivered(ctx context.Context, order, orderLine string) (decimal.Decimal, error)
	// TotalReturned sums return+maintenance+damaged quantity; delivery and
	// deliveryLine optionally narrow the aggregation ("" means all).
	TotalReturned(ctx context.Context, order, orderLine, delivery, deliveryLine string) (decimal.Decimal, error)
	TotalDepositUsed(ctx context.Context, order string) (decimal.Decimal, error)
	LastBilledDate(ctx context.Context, order string) (*time.Time, error)
	LastReturnName(ctx context.Context, order string) (string, error)
	// PendingDeliveryNames lists submitted deliveries that still have
	// pending quantity out, for an order.
	PendingDeliveryNames(ctx context.Context, order string) ([]string, error)
}
