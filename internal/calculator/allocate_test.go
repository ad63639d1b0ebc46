package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

var cent = decimal.New(1, -2)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// approxEqual compares to within a cent, the display precision.
func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(cent)
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.Item
		taxes        []models.Tax
		selections   models.Selections
		members      []string
		validateFunc func(t *testing.T, a *Allocation)
	}{
		{
			name: "shared item split by quantity with even tax",
			items: []models.Item{
				{Index: 0, Name: "Pizza", Quantity: 2, PricePerUnit: dec(50)},
			},
			taxes: []models.Tax{
				{Name: "CGST", Amount: dec(10)},
				{Name: "SGST", Amount: dec(10)},
			},
			selections: models.Selections{
				"A": {0: {Selected: true, Quantity: 1}},
				"B": {0: {Selected: true, Quantity: 1}},
			},
			members: []string{"A", "B"},
			validateFunc: func(t *testing.T, a *Allocation) {
				// Each: 10 tax + 50 item = 60
				for _, m := range []string{"A", "B"} {
					if !approxEqual(a.Members[m].Amount, dec(60)) {
						t.Errorf("%s amount = %v, want 60", m, a.Members[m].Amount)
					}
					if !approxEqual(a.Members[m].TaxShare, dec(10)) {
						t.Errorf("%s tax = %v, want 10", m, a.Members[m].TaxShare)
					}
				}
			},
		},
		{
			name: "sole claimant pays full line cost",
			items: []models.Item{
				{Index: 0, Name: "Beer", Quantity: 3, PricePerUnit: dec(30)},
			},
			selections: models.Selections{
				"A": {0: {Selected: true, Quantity: 2}},
			},
			members: []string{"A", "B"},
			validateFunc: func(t *testing.T, a *Allocation) {
				alice := a.Members["A"]
				if !approxEqual(alice.Amount, dec(90)) {
					t.Errorf("A amount = %v, want 90", alice.Amount)
				}
				if len(alice.Items) != 1 || alice.Items[0].Quantity != 2 {
					t.Fatalf("A items = %+v, want one share of quantity 2", alice.Items)
				}
				if !a.Members["B"].Amount.IsZero() {
					t.Errorf("B amount = %v, want 0", a.Members["B"].Amount)
				}
			},
		},
		{
			name: "unclaimed item is dropped and reported",
			items: []models.Item{
				{Index: 0, Name: "Naan", Quantity: 4, PricePerUnit: dec(40)},
				{Index: 1, Name: "Dal", Quantity: 1, PricePerUnit: dec(180)},
			},
			taxes: []models.Tax{{Name: "GST", Amount: dec(30)}},
			selections: models.Selections{
				"A": {0: {Selected: true, Quantity: 1}, 1: {}},
				"B": {0: {Selected: true, Quantity: 3}},
				"C": {1: {Selected: false, Quantity: 0}},
			},
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, a *Allocation) {
				// Naan 160 split 1:3 -> 40 / 120, tax 10 each
				want := map[string]float64{"A": 50, "B": 130, "C": 10}
				for m, w := range want {
					if !approxEqual(a.Members[m].Amount, dec(w)) {
						t.Errorf("%s amount = %v, want %v", m, a.Members[m].Amount, w)
					}
				}
				if len(a.Unclaimed) != 1 || a.Unclaimed[0].Name != "Dal" {
					t.Errorf("Unclaimed = %+v, want [Dal]", a.Unclaimed)
				}
				if !approxEqual(a.UnclaimedCost(), dec(180)) {
					t.Errorf("UnclaimedCost = %v, want 180", a.UnclaimedCost())
				}
			},
		},
		{
			name: "uneven three-way tax split",
			taxes: []models.Tax{
				{Name: "Service charge", Amount: dec(100)},
			},
			members: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, a *Allocation) {
				sum := decimal.Zero
				for _, m := range a.Members {
					sum = sum.Add(m.TaxShare)
				}
				if !approxEqual(sum, dec(100)) {
					t.Errorf("sum of tax shares = %v, want 100", sum)
				}
				if a.Members["A"].Amount.StringFixed(2) != "33.33" {
					t.Errorf("A amount = %s, want 33.33", a.Members["A"].Amount.StringFixed(2))
				}
			},
		},
		{
			name:  "no members means no tax per person",
			taxes: []models.Tax{{Name: "GST", Amount: dec(18)}},
			validateFunc: func(t *testing.T, a *Allocation) {
				if !a.TaxPerPerson.IsZero() {
					t.Errorf("TaxPerPerson = %v, want 0", a.TaxPerPerson)
				}
				if len(a.Members) != 0 {
					t.Errorf("Members = %d, want 0", len(a.Members))
				}
			},
		},
		{
			name: "selections from non-members are ignored",
			items: []models.Item{
				{Index: 0, Name: "Fries", Quantity: 2, PricePerUnit: dec(60)},
			},
			selections: models.Selections{
				"A":    {0: {Selected: true, Quantity: 1}},
				"gone": {0: {Selected: true, Quantity: 1}},
			},
			members: []string{"A"},
			validateFunc: func(t *testing.T, a *Allocation) {
				if !approxEqual(a.Members["A"].Amount, dec(120)) {
					t.Errorf("A amount = %v, want 120", a.Members["A"].Amount)
				}
				if a.For("gone") != nil {
					t.Error("non-member should have no total")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Allocate(tt.items, tt.taxes, tt.selections, tt.members)
			if len(a.Members) != len(tt.members) {
				t.Fatalf("got %d member totals, want %d", len(a.Members), len(tt.members))
			}
			tt.validateFunc(t, a)
		})
	}
}

func TestAllocate_ConservesItemCost(t *testing.T) {
	items := []models.Item{
		{Index: 0, Name: "Biryani", Quantity: 3, PricePerUnit: dec(299.99)},
		{Index: 1, Name: "Raita", Quantity: 7, PricePerUnit: dec(45.5)},
	}
	selections := models.Selections{
		"A": {0: {Selected: true, Quantity: 1}, 1: {Selected: true, Quantity: 2}},
		"B": {0: {Selected: true, Quantity: 1}, 1: {Selected: true, Quantity: 3}},
		"C": {0: {Selected: true, Quantity: 1}, 1: {Selected: true, Quantity: 1}},
	}
	members := []string{"A", "B", "C"}

	a := Allocate(items, nil, selections, members)

	for _, item := range items {
		sum := decimal.Zero
		for _, m := range members {
			for _, share := range a.Members[m].Items {
				if share.Index == item.Index {
					sum = sum.Add(share.Cost)
				}
			}
		}
		if !approxEqual(sum, item.TotalCost()) {
			t.Errorf("%s: shares sum to %v, want %v", item.Name, sum, item.TotalCost())
		}
	}
}

func TestAllocate_Pure(t *testing.T) {
	items := []models.Item{{Index: 0, Name: "Tea", Quantity: 5, PricePerUnit: dec(15)}}
	taxes := []models.Tax{{Name: "GST", Amount: dec(3.75)}}
	selections := models.Selections{
		"A": {0: {Selected: true, Quantity: 2}},
		"B": {0: {Selected: true, Quantity: 3}},
	}
	before := selections.Clone()

	first := Allocate(items, taxes, selections, []string{"A", "B"})
	second := Allocate(items, taxes, selections, []string{"A", "B"})

	for _, m := range []string{"A", "B"} {
		if !first.Members[m].Amount.Equal(second.Members[m].Amount) {
			t.Errorf("%s: %v != %v across calls", m, first.Members[m].Amount, second.Members[m].Amount)
		}
	}
	if len(selections) != len(before) || selections["A"][0] != before["A"][0] {
		t.Error("Allocate must not modify selections")
	}
}
