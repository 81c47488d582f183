package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
)

type OrderService interface {
	CreateOrder(ctx context.Context, order *domain.RentalOrder) error
	GetOrder(ctx context.Context, name string) (*domain.RentalOrder, error)
	SubmitOrder(ctx context.Context, name string) error
	// Reconcile recomputes the order's derived quantities and status from
	// the submitted documents that reference it.
	Reconcile(ctx context.Context, name string) error
}

type DeliveryService interface {
	CreateDeliveryFromOrder(ctx context.Context, order string, postingDate time.Time) (*domain.RentalDelivery, error)
	CreateDelivery(ctx context.Context, d *domain.RentalDelivery) error
	GetDelivery(ctx context.Context, name string) (*domain.RentalDelivery, error)
	SubmitDelivery(ctx context.Context, name string) error
	CancelDelivery(ctx context.Context, name string) error
}

type ReturnService interface {
	CreateReturnFromDelivery(ctx context.Context, delivery string, postingDate time.Time) (*domain.RentalReturn, error)
	CreateReturn(ctx context.Context, r *domain.RentalReturn) error
	GetReturn(ctx context.Context, name string) (*domain.RentalReturn, error)
	SubmitReturn(ctx context.Context, name string) error
	CancelReturn(ctx context.Context, name string) error
}

type RepackService interface {
	CreateRepack(ctx context.Context, c *domain.ChangeInventory) error
	GetRepack(ctx context.Context, name string) (*domain.ChangeInventory, error)
	SubmitRepack(ctx context.Context, name string) error
	CancelRepack(ctx context.Context, name string) error
}

type HiredItemsService interface {
	CreateHiredItems(ctx context.Context, h *domain.HiredItems) error
	GetHiredItems(ctx context.Context, name string) (*domain.HiredItems, error)
	SubmitHiredItems(ctx context.Context, name string) error
	CancelHiredItems(ctx context.Context, name string) error
	// CreateSupplierReturn drafts a return document against a submitted
	// receipt, prefilled with the quantities still out.
	CreateSupplierReturn(ctx context.Context, receipt string, postingDate time.Time) (*domain.HiredItems, error)
}

type SettingsService interface {
	GetSettings(ctx context.Context) (*domain.RentalSettings, error)
	UpdateDefaults(ctx context.Context, row *domain.RentalDefaults) error
	// DefaultsFor resolves the per-company defaults, provisioning the
	// rented/maintenance warehouses first when auto-create is on.
	DefaultsFor(ctx context.Context, company string) (*domain.RentalDefaults, error)
	CreateWarehousesForCompany(ctx context.Context, company string) (*domain.RentalDefaults, error)
	CreateWarehousesForAllCompanies(ctx context.Context) ([]domain.RentalDefaults, error)
}

type BillingService interface {
	CreateInvoiceFromDelivery(ctx context.Context, delivery string, postingDate time.Time) (*domain.SalesInvoice, error)
	CreateInvoice(ctx context.Context, inv *domain.SalesInvoice) error
	GetInvoice(ctx context.Context, name string) (*domain.SalesInvoice, error)
	SubmitInvoice(ctx context.Context, name string) error
	CancelInvoice(ctx context.Context, name string) error
	// CreateMonthlyRentalInvoices runs the pro-rata billing pass over every
	// active order and returns the names of the invoices it created.
	CreateMonthlyRentalInvoices(ctx context.Context, asOf time.Time) ([]string, error)
}

type StockService interface {
	Balance(ctx context.Context, itemCode, warehouse string, asOf time.Time) (decimal.Decimal, error)
}

type ReportService interface {
	RentalReconciliation(ctx context.Context, order string) (*ReconciliationReport, error)
}

// thirty is the flat month length used by pro-rata billing. Rental rates
// are quoted per 30-day month regardless of the calendar month.
var thirty = decimal.NewFromInt(30)

// newDocName mints a document name like RD-3F2A9C41.
func newDocName(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, id[:8])
}

// daysBetween counts whole days from one date to another, ignoring the
// time of day on either side.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func postingTimeOf(t time.Time) string {
	return t.Format("15:04:05")
}
