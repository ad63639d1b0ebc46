package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// ItemShare is one member's share of one line item.
type ItemShare struct {
	Index    models.ItemKey
	Name     string
	Cost     decimal.Decimal
	Quantity int
}

// MemberTotal is the calculated amount one member owes for a bill.
type MemberTotal struct {
	// Amount is TaxShare plus the sum of item costs.
	Amount decimal.Decimal

	// TaxShare is this member's even share of all taxes.
	TaxShare decimal.Decimal

	// Items are the member's item shares in bill order.
	Items []ItemShare
}

// Subtotal is the item part of Amount.
func (m *MemberTotal) Subtotal() decimal.Decimal {
	return m.Amount.Sub(m.TaxShare)
}

// Allocation is the output of Allocate.
type Allocation struct {
	TotalTax     decimal.Decimal
	TaxPerPerson decimal.Decimal

	// Members has an entry for every member passed to Allocate.
	Members map[string]*MemberTotal

	// Unclaimed lists items nobody selected. Their cost is not billed to anyone.
	Unclaimed []models.Item
}

// For returns the member's total, or nil for a non-member.
func (a *Allocation) For(memberID string) *MemberTotal {
	return a.Members[memberID]
}

// UnclaimedCost sums the cost of unclaimed items.
func (a *Allocation) UnclaimedCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range a.Unclaimed {
		total = total.Add(item.TotalCost())
	}
	return total
}

// Allocate computes how much each member owes.
//
// Taxes are split evenly across every member, whatever they selected. Each
// item's full billed cost (price × quantity on the receipt) is split among
// the members who selected it, in proportion to the units each claimed, so
// a sole claimant of some units pays for the whole line. Items nobody
// claimed are reported in Unclaimed.
//
// Selections from IDs not in members are ignored. Allocate does not re-check
// selection bounds; those are enforced when selections are mutated.
func Allocate(items []models.Item, taxes []models.Tax, selections models.Selections, members []string) *Allocation {
	totalTax := decimal.Zero
	for _, tax := range taxes {
		totalTax = totalTax.Add(tax.Amount)
	}

	taxPerPerson := decimal.Zero
	if len(members) > 0 {
		taxPerPerson = totalTax.Div(decimal.NewFromInt(int64(len(members))))
	}

	alloc := &Allocation{
		TotalTax:     totalTax,
		TaxPerPerson: taxPerPerson,
		Members:      make(map[string]*MemberTotal, len(members)),
	}
	for _, m := range members {
		alloc.Members[m] = &MemberTotal{
			Amount:   taxPerPerson,
			TaxShare: taxPerPerson,
			Items:    []ItemShare{},
		}
	}

	for _, item := range items {
		type claim struct {
			member   string
			quantity int
		}

		// Walk members in order so shares are appended deterministically.
		var claims []claim
		totalQty := 0
		for _, m := range members {
			sel, ok := selections.Get(m, item.Index)
			if !ok || !sel.Selected || sel.Quantity <= 0 {
				continue
			}
			claims = append(claims, claim{member: m, quantity: sel.Quantity})
			totalQty += sel.Quantity
		}

		if totalQty == 0 {
			alloc.Unclaimed = append(alloc.Unclaimed, item)
			continue
		}

		cost := item.TotalCost()
		divisor := decimal.NewFromInt(int64(totalQty))
		for _, c := range claims {
			share := cost.Mul(decimal.NewFromInt(int64(c.quantity))).Div(divisor)
			total := alloc.Members[c.member]
			total.Amount = total.Amount.Add(share)
			total.Items = append(total.Items, ItemShare{
				Index:    item.Index,
				Name:     item.Name,
				Cost:     share,
				Quantity: c.quantity,
			})
		}
	}

	return alloc
}
