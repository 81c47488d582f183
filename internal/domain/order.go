package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "Draft"
	OrderStatusToDeliver OrderStatus = "To Deliver"
	OrderStatusToBill    OrderStatus = "To Bill"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// RentalOrder is the governing sales document. Its lines carry derived
// delivered/returned quantities that are recomputed from submitted
// deliveries and returns, never written directly by callers.
type RentalOrder struct {
	Name                     string            `json:"name"`
	Company                  string            `json:"company"`
	Customer                 string            `json:"customer"`
	TransactionDate          time.Time         `json:"transaction_date"`
	DeliveryDate             *time.Time        `json:"delivery_date,omitempty"`
	DocStatus                DocStatus         `json:"docstatus"`
	Status                   OrderStatus       `json:"status"`
	TotalQty                 decimal.Decimal   `json:"total_qty"`
	SecurityDeposit          decimal.Decimal   `json:"security_deposit"`
	RemainingSecurityDeposit decimal.Decimal   `json:"remaining_security_deposit"`
	LastBilledDate           *time.Time        `json:"last_billed_date,omitempty"`
	AllDelivered             bool              `json:"all_delivered"`
	Lines                    []RentalOrderLine `json:"lines"`
}

type RentalOrderLine struct {
	Name         string          `json:"name"`
	Order        string          `json:"order"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Qty          decimal.Decimal `json:"qty"`
	Rate         decimal.Decimal `json:"rate"`
	DeliveredQty decimal.Decimal `json:"delivered_qty"`
	ReturnedQty  decimal.Decimal `json:"returned_qty"`
}

// RemainingQty is the quantity still to deliver on this line.
func (l *RentalOrderLine) RemainingQty() decimal.Decimal {
	return l.Qty.Sub(l.DeliveredQty)
}
