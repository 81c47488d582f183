package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeInventory converts one source item into one or more target items
// inside a single warehouse, provided the source quantity is on hand at
// posting time.
type ChangeInventory struct {
	Name           string                `json:"name"`
	Company        string                `json:"company"`
	PostingDate    time.Time             `json:"posting_date"`
	PostingTime    string                `json:"posting_time"`
	Warehouse      string                `json:"warehouse"`
	SourceItem     string                `json:"source_item"`
	SourceItemName string                `json:"source_item_name"`
	SourceQty      decimal.Decimal       `json:"source_qty"`
	SourceSerialNo string                `json:"source_serial_no"`
	SourceBatchNo  string                `json:"source_batch_no"`
	TotalTargetQty decimal.Decimal       `json:"total_target_qty"`
	Remarks        string                `json:"remarks"`
	DocStatus      DocStatus             `json:"docstatus"`
	Targets        []ChangeInventoryLine `json:"targets"`
}

type ChangeInventoryLine struct {
	Name        string          `json:"name"`
	Parent      string          `json:"parent"`
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description"`
	Qty         decimal.Decimal `json:"qty"`
	SerialNo    string          `json:"serial_no"`
	BatchNo     string          `json:"batch_no"`
}
