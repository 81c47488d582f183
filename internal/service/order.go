package service

import (
	"context"

	"github.com/shopspring/decimal"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type orderService struct {
	store repository.Store
}

func NewOrderService(store repository.Store) OrderService {
	return &orderService{store: store}
}

func (s *orderService) CreateOrder(ctx context.Context, order *domain.RentalOrder) error {
	if err := validateOrder(order); err != nil {
		return err
	}
	if order.Name == "" {
		order.Name = newDocName("RO")
	}
	order.DocStatus = domain.DocStatusDraft
	order.Status = domain.OrderStatusDraft
	order.RemainingSecurityDeposit = order.SecurityDeposit
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.Name == "" {
			line.Name = newDocName("ROL")
		}
		line.Order = order.Name
		line.DeliveredQty = decimal.Zero
		line.ReturnedQty = decimal.Zero
	}
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		return st.Orders().Create(ctx, order)
	})
}

func validateOrder(order *domain.RentalOrder) error {
	if order.Company == "" {
		return domain.Validationf("company is required")
	}
	if order.Customer == "" {
		return domain.Validationf("customer is required")
	}
	if len(order.Lines) == 0 {
		return domain.Validationf("order has no lines")
	}
	total := decimal.Zero
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.ItemCode == "" {
			return domain.Validationf("row %d: item code is required", i+1)
		}
		if !line.Qty.IsPositive() {
			return domain.Validationf("row %d: quantity must be greater than zero", i+1)
		}
		if !line.Rate.IsPositive() {
			return domain.Validationf("row %d: rate must be greater than zero", i+1)
		}
		total = total.Add(line.Qty)
	}
	order.TotalQty = total
	if order.SecurityDeposit.IsNegative() {
		return domain.Validationf("security deposit cannot be negative")
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, name string) (*domain.RentalOrder, error) {
	return s.store.Orders().GetByName(ctx, name)
}

func (s *orderService) SubmitOrder(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		order, err := st.Orders().GetByName(ctx, name)
		if err != nil {
			return err
		}
		if order.DocStatus != domain.DocStatusDraft {
			return domain.Validationf("rental order %s is not a draft", name)
		}
		if err := validateOrder(order); err != nil {
			return err
		}
		order.DocStatus = domain.DocStatusSubmitted
		order.Status = domain.OrderStatusToDeliver
		return st.Orders().UpdateDerived(ctx, order)
	})
}

func (s *orderService) Reconcile(ctx context.Context, name string) error {
	return s.store.WithinTx(ctx, func(st repository.Store) error {
		return reconcileOrder(ctx, st, name)
	})
}

// reconcileOrder recomputes an order's per-line delivered and returned
// quantities from the quantity ledger, then derives the header fields that
// depend on them. It runs after every submit and cancel of a delivery,
// return or invoice touching the order, always inside that operation's
// transaction, and is idempotent: the same ledger contents always produce
// the same order state.
func reconcileOrder(ctx context.Context, st repository.Store, name string) error {
	order, err := st.Orders().GetByName(ctx, name)
	if err != nil {
		return err
	}
	if order.DocStatus != domain.DocStatusSubmitted {
		return nil
	}

	ledger := st.Ledger()
	allDelivered := true
	totalReturned := decimal.Zero
	for i := range order.Lines {
		line := &order.Lines[i]
		delivered, err := ledger.TotalDelivered(ctx, order.Name, line.Name)
		if err != nil {
			return err
		}
		if delivered.GreaterThan(line.Qty) {
			return domain.Validationf("item %s: delivered quantity %s exceeds ordered quantity %s",
				line.ItemCode, delivered, line.Qty)
		}
		returned, err := ledger.TotalReturned(ctx, order.Name, line.Name, "", "")
		if err != nil {
			return err
		}
		if returned.GreaterThan(delivered) {
			return domain.Validationf("item %s: returned quantity %s exceeds delivered quantity %s",
				line.ItemCode, returned, delivered)
		}
		line.DeliveredQty = delivered
		line.ReturnedQty = returned
		if err := st.Orders().UpdateLineDerived(ctx, line); err != nil {
			return err
		}
		if delivered.LessThan(line.Qty) {
			allDelivered = false
		}
		totalReturned = totalReturned.Add(returned)
	}

	lastBilled, err := ledger.LastBilledDate(ctx, order.Name)
	if err != nil {
		return err
	}
	depositUsed, err := ledger.TotalDepositUsed(ctx, order.Name)
	if err != nil {
		return err
	}
	remaining := order.SecurityDeposit.Sub(depositUsed)
	if remaining.IsNegative() {
		return domain.Validationf("maintenance and damage charges %s exceed the security deposit %s",
			depositUsed, order.SecurityDeposit)
	}

	prevStatus := order.Status
	status := domain.OrderStatusToDeliver
	if allDelivered {
		status = domain.OrderStatusToBill
		if totalReturned.Equal(order.TotalQty) {
			status = domain.OrderStatusCompleted
		}
	}

	order.AllDelivered = allDelivered
	order.LastBilledDate = lastBilled
	order.Status = status

	if status == domain.OrderStatusCompleted && prevStatus != domain.OrderStatusCompleted {
		if err := closeOutOrder(ctx, st, order, remaining); err != nil {
			return err
		}
		remaining = decimal.Zero
	}
	order.RemainingSecurityDeposit = remaining

	return st.Orders().UpdateDerived(ctx, order)
}

// closeOutOrder runs when reconciliation moves the order to Completed: the
// unused security deposit is recorded as refunded on the last return, and a
// draft invoice is raised for the rental days not yet billed. The refund
// overwrites any earlier value so a cancel-and-replace cycle that completes
// the order again leaves a single, exact refund.
func closeOutOrder(ctx context.Context, st repository.Store, order *domain.RentalOrder, remainingDeposit decimal.Decimal) error {
	lastReturn, err := st.Ledger().LastReturnName(ctx, order.Name)
	if err != nil {
		return err
	}
	if lastReturn != "" && remainingDeposit.IsPositive() {
		if err := st.Returns().SetSecurityDepositReturned(ctx, lastReturn, remainingDeposit); err != nil {
			return err
		}
	}
	return createClosingInvoice(ctx, st, order)
}
