package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type billingService struct {
	store repository.Store
}

func NewBillingService(store repository.Store) BillingService {
	return &billingService{store: store}
}

// CreateInvoiceFromDelivery drafts a plain invoice for everything a
// delivery still has out, at the delivery's rates.
func (s *billingService) CreateInvoiceFromDelivery(ctx context.Context, delivery string, postingDate time.Time) (*domain.SalesInvoice, error) {
	var inv *domain.SalesInvoice
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		d, err := st.Deliveries().GetByName(ctx, delivery)
		if err != nil {
			return err
		}
		if d.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("rental delivery %s is not submitted", delivery)
		}
		so, err := st.Orders().GetByName(ctx, d.Order)
		if err != nil {
			return err
		}

		inv = newDraftInvoice(so, postingDate)
		for i := range d.Lines {
			dl := &d.Lines[i]
			if !dl.PendingQty.IsPositive() {
				continue
			}
			inv.Lines = append(inv.Lines, domain.SalesInvoiceLine{
				Name:         newDocName("SIL"),
				ItemCode:     dl.ItemCode,
				ItemName:     dl.ItemName,
				Qty:          dl.PendingQty,
				Rate:         dl.Rate,
				Amount:       dl.PendingQty.Mul(dl.Rate).Round(2),
				Order:        dl.Order,
				OrderLine:    dl.OrderLine,
				Delivery:     d.Name,
				DeliveryLine: dl.Name,
			})
		}
		if len(inv.Lines) == 0 {
			return domain.Validationf("rental delivery %s has nothing to invoice", delivery)
		}
		if err := validateInvoice(inv); err != nil {
			return err
		}
		return st.Invoices().Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func newDraftInvoice(so *domain.RentalOrder, postingDate time.Time) *domain.SalesInvoice {
	return &domain.SalesInvoice{
		Name:        newDocName("SINV"),
		Company:     so.Company,
		Customer:    so.Customer,
		Order:       so.Name,
		PostingDate: postingDate,
		DueDate:     postingDate.AddDate(0, 0, 30),
		DocStatus:   domain.DocStatusDraft,
		Status:      domain.InvoiceStatusDraft,
	}
}

// validateInvoice checks the rental invoice rules and derives the grand
// total. Line amounts are kept as computed by the caller: pro-rata lines
// deliberately do not equal qty times rate.
func validateInvoice(inv *domain.SalesInvoice) error {
	if inv.Customer == "" {
		return domain.Validationf("customer is required")
	}
	if inv.Order == "" {
		return domain.Validationf("rental order reference is required")
	}
	if inv.UpdateStock {
		return domain.Validationf("rental invoices must not update stock")
	}
	if len(inv.Lines) == 0 {
		return domain.Validationf("invoice has no lines")
	}
	total := decimal.Zero
	for i := range inv.Lines {
		line := &inv.Lines[i]
		if line.ItemCode == "" {
			return domain.Validationf("row %d: item code is required", i+1)
		}
		if !line.Qty.IsPositive() {
			return domain.Validationf("row %d: quantity must be greater than zero", i+1)
		}
		if line.Amount.IsNegative() {
			return domain.Validationf("row %d: amount cannot be negative", i+1)
		}
		if line.Order == "" {
			line.Order = inv.Order
		}
		if line.Order != inv.Order {
			return domain.Validationf("row %d: all lines must belong to rental order %s", i+1, inv.Order)
		}
		total = total.Add(line.Amount)
	}
	inv.GrandTotal = total.Round(2)
	return nil
}

func (s *billingService) CreateInvoice(ctx context.Context, inv *domain.SalesInvoice) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		if inv.Name == "" {
			inv.Name = newDocName("SINV")
		}
		inv.DocStatus = domain.DocStatusDraft
		inv.Status = domain.InvoiceStatusDraft
		for i := range inv.Lines {
			if inv.Lines[i].Name == "" {
				inv.Lines[i].Name = newDocName("SIL")
			}
		}
		if err := validateInvoice(inv); err != nil {
			return err
		}
		if _, err := st.Orders().GetByName(ctx, inv.Order); err != nil {
			return err
		}
		return st.Invoices().Create(ctx, inv)
	})
}

func (s *billingService) GetInvoice(ctx context.Context, name string) (*domain.SalesInvoice, error) {
	return s.store.Invoices().GetByName(ctx, name)
}

func (s *billingService) SubmitInvoice(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		inv, err := st.Invoices().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if inv.DocStatus != domain.DocStatusDraft {
			return domain.Validationf("sales invoice %s is not a draft", name)
		}
		if err := validateInvoice(inv); err != nil {
			return err
		}
		inv.DocStatus = domain.DocStatusSubmitted
		inv.Status = domain.InvoiceStatusSubmitted
		if err := st.Invoices().Update(ctx, inv); err != nil {
			return err
		}
		return reconcileOrder(ctx, st, inv.Order)
	})
}

// CancelInvoice only accepts the latest submitted invoice for the order:
// the last billed date anchors every later pro-rata computation, so
// cancelling an earlier invoice would leave already-billed days billable
// again.
func (s *billingService) CancelInvoice(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		inv, err := st.Invoices().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if inv.DocStatus != domain.DocStatusSubmitted {
			return domain.Validationf("sales invoice %s is not submitted", name)
		}
		last, err := st.Ledger().LastBilledDate(ctx, inv.Order)
		if err != nil {
			return err
		}
		if last != nil && last.After(inv.PostingDate) {
			return domain.Validationf("only the latest invoice for order %s can be cancelled", inv.Order)
		}
		inv.DocStatus = domain.DocStatusCancelled
		inv.Status = domain.InvoiceStatusCancelled
		if err := st.Invoices().Update(ctx, inv); err != nil {
			return err
		}
		return reconcileOrder(ctx, st, inv.Order)
	})
}

// CreateMonthlyRentalInvoices is the periodic billing pass. For every
// submitted order with quantity still out it bills the days elapsed since
// the anchor date at one thirtieth of the monthly rate per day, then
// submits the invoice so the order's last billed date moves forward.
func (s *billingService) CreateMonthlyRentalInvoices(ctx context.Context, asOf time.Time) ([]string, error) {
	var created []string
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		orders, err := st.Orders().ListActive(ctx)
		if err != nil {
			return err
		}
		for i := range orders {
			so := &orders[i]
			name, err := billOrder(ctx, st, so, asOf)
			if err != nil {
				return err
			}
			if name != "" {
				created = append(created, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func billOrder(ctx context.Context, st repository.Store, so *domain.RentalOrder, asOf time.Time) (string, error) {
	anchor := so.TransactionDate
	if so.LastBilledDate != nil {
		anchor = *so.LastBilledDate
	}
	days := daysBetween(anchor, asOf)
	if days <= 0 {
		return "", nil
	}

	pending, err := st.Ledger().PendingDeliveryNames(ctx, so.Name)
	if err != nil {
		return "", err
	}
	if len(pending) == 0 {
		return "", nil
	}

	inv := newDraftInvoice(so, asOf)
	dayCount := decimal.NewFromInt(int64(days))
	for _, deliveryName := range pending {
		d, err := st.Deliveries().GetByName(ctx, deliveryName)
		if err != nil {
			return "", err
		}
		for j := range d.Lines {
			dl := &d.Lines[j]
			if !dl.PendingQty.IsPositive() {
				continue
			}
			dailyRate := dl.Rate.Div(thirty)
			inv.Lines = append(inv.Lines, domain.SalesInvoiceLine{
				Name:         newDocName("SIL"),
				ItemCode:     dl.ItemCode,
				ItemName:     dl.ItemName,
				Qty:          dl.PendingQty,
				Rate:         dailyRate.Round(2),
				Amount:       dailyRate.Mul(dayCount).Round(2),
				Order:        dl.Order,
				OrderLine:    dl.OrderLine,
				Delivery:     d.Name,
				DeliveryLine: dl.Name,
			})
		}
	}
	if len(inv.Lines) == 0 {
		return "", nil
	}
	if err := validateInvoice(inv); err != nil {
		return "", err
	}
	if err := st.Invoices().Create(ctx, inv); err != nil {
		return "", err
	}

	inv.DocStatus = domain.DocStatusSubmitted
	inv.Status = domain.InvoiceStatusSubmitted
	if err := st.Invoices().Update(ctx, inv); err != nil {
		return "", err
	}
	if err := reconcileOrder(ctx, st, so.Name); err != nil {
		return "", err
	}
	return inv.Name, nil
}

// createClosingInvoice bills the final stretch of a fully returned order:
// each return line is charged pro rata from the anchor date up to its
// return's posting date. The invoice is left in draft for review.
func createClosingInvoice(ctx context.Context, st repository.Store, so *domain.RentalOrder) error {
	anchor := so.TransactionDate
	if so.LastBilledDate != nil {
		anchor = *so.LastBilledDate
	}
	returns, err := st.Returns().ListByOrderSince(ctx, so.Name, so.LastBilledDate)
	if err != nil {
		return err
	}

	inv := newDraftInvoice(so, time.Now().UTC())
	for i := range returns {
		ret := &returns[i]
		days := daysBetween(anchor, ret.PostingDate)
		if days <= 0 {
			continue
		}
		dayCount := decimal.NewFromInt(int64(days))
		for j := range ret.Lines {
			rl := &ret.Lines[j]
			qty := rl.TotalQty()
			if !qty.IsPositive() {
				continue
			}
			dailyRate := rl.Rate.Div(thirty)
			inv.Lines = append(inv.Lines, domain.SalesInvoiceLine{
				Name:      newDocName("SIL"),
				ItemCode:  rl.ItemCode,
				ItemName:  rl.ItemName,
				Qty:       qty,
				Rate:      dailyRate.Round(2),
				Amount:    dailyRate.Mul(dayCount).Round(2),
				Order:     rl.Order,
				OrderLine: rl.OrderLine,
				Delivery:  rl.Delivery,
			})
		}
	}
	if len(inv.Lines) == 0 {
		return nil
	}
	if err := validateInvoice(inv); err != nil {
		return err
	}
	return st.Invoices().Create(ctx, inv)
}
