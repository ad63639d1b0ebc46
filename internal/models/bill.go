package models

import (
	"github.com/shopspring/decimal"
)

// ItemKey identifies an item within a bill. It is the item's 0-based
// position in the extraction output and never changes afterwards.
type ItemKey int

// BillState is the lifecycle state of a group's bill.
type BillState int

const (
	// BillEmpty means no receipt has been processed for the group yet.
	BillEmpty BillState = iota
	// BillItemsLoaded means items exist; uploads are refused until the bill is cleared.
	BillItemsLoaded
)

func (s BillState) String() string {
	switch s {
	case BillItemsLoaded:
		return "items_loaded"
	default:
		return "empty"
	}
}

// Item represents a single line item on a bill.
type Item struct {
	// Index is the stable ordinal assigned at extraction time.
	Index ItemKey `json:"index"`

	// Name is the item name as printed on the receipt. Not unique.
	Name string `json:"item_name"`

	// Quantity is the maximum number of units members can claim.
	Quantity int `json:"quantity"`

	// PricePerUnit is the price of one unit.
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// TotalCost is the cost of the whole line as billed, claimed or not.
func (i Item) TotalCost() decimal.Decimal {
	return i.PricePerUnit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Tax is a named surcharge line with an absolute amount.
type Tax struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Bill is the active bill of a group. A group has at most one.
type Bill struct {
	// GroupID is the owning group and the primary key.
	GroupID string

	// UploaderID is the user who paid and uploaded the receipt.
	UploaderID string

	Items []Item
	Taxes []Tax

	// Selections maps member ID to that member's claims.
	Selections Selections

	// Version increments on every selection write.
	Version int64

	CreatedAt int64
	UpdatedAt int64
}

// State reports where the bill is in its lifecycle.
func (b *Bill) State() BillState {
	if b == nil || len(b.Items) == 0 {
		return BillEmpty
	}
	return BillItemsLoaded
}

// Item looks up an item by key.
func (b *Bill) Item(key ItemKey) (Item, bool) {
	if b == nil {
		return Item{}, false
	}
	for _, item := range b.Items {
		if item.Index == key {
			return item, true
		}
	}
	return Item{}, false
}

// TotalTax sums all tax lines.
func (b *Bill) TotalTax() decimal.Decimal {
	total := decimal.Zero
	for _, t := range b.Taxes {
		total = total.Add(t.Amount)
	}
	return total
}
