package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "Draft"
	InvoiceStatusSubmitted InvoiceStatus = "Submitted"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
)

// SalesInvoice bills a rental order. Rental invoices reference exactly one
// order and never update stock; the pro-rata billing job emits one line
// per order line for the elapsed rental days.
type SalesInvoice struct {
	Name        string             `json:"name"`
	Company     string             `json:"company"`
	Customer    string             `json:"customer"`
	Order       string             `json:"order"`
	PostingDate time.Time          `json:"posting_date"`
	DueDate     time.Time          `json:"due_date"`
	UpdateStock bool               `json:"update_stock"`
	DocStatus   DocStatus          `json:"docstatus"`
	Status      InvoiceStatus      `json:"status"`
	GrandTotal  decimal.Decimal    `json:"grand_total"`
	Lines       []SalesInvoiceLine `json:"lines"`
}

type SalesInvoiceLine struct {
	Name         string          `json:"name"`
	Invoice      string          `json:"invoice"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Qty          decimal.Decimal `json:"qty"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	Order        string          `json:"order"`
	OrderLine    string          `json:"order_line"`
	Delivery     string          `json:"delivery"`
	DeliveryLine string          `json:"delivery_line"`
}
