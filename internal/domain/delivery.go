package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryStatus string

const (
	DeliveryStatusDraft             DeliveryStatus = "Draft"
	DeliveryStatusDelivered         DeliveryStatus = "Delivered"
	DeliveryStatusPartiallyReturned DeliveryStatus = "Partially Returned"
	DeliveryStatusReturned          DeliveryStatus = "Returned"
	DeliveryStatusCancelled         DeliveryStatus = "Cancelled"
)

type ReturnState string

const (
	ReturnStateNone    ReturnState = "Not Returned"
	ReturnStatePartial ReturnState = "Partially Returned"
	ReturnStateFull    ReturnState = "Fully Returned"
)

// RentalDelivery moves items from the rental source warehouse to the
// rented warehouse. All lines must reference the same order as the header.
type RentalDelivery struct {
	Name            string               `json:"name"`
	Company         string               `json:"company"`
	Order           string               `json:"order"`
	PostingDate     time.Time            `json:"posting_date"`
	PostingTime     string               `json:"posting_time"`
	SourceWarehouse string               `json:"source_warehouse"`
	RentedWarehouse string               `json:"rented_warehouse"`
	DocStatus       DocStatus            `json:"docstatus"`
	Status          DeliveryStatus       `json:"status"`
	TotalQty        decimal.Decimal      `json:"total_qty"`
	GrandTotal      decimal.Decimal      `json:"grand_total"`
	Lines           []RentalDeliveryLine `json:"lines"`
}

type RentalDeliveryLine struct {
	Name        string          `json:"name"`
	Delivery    string          `json:"delivery"`
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	Qty         decimal.Decimal `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	PendingQty  decimal.Decimal `json:"pending_qty"`
	ReturnedQty decimal.Decimal `json:"returned_qty"`
	ReturnState ReturnState     `json:"return_state"`
	Order       string          `json:"order"`
	OrderLine   string          `json:"order_line"`
}
