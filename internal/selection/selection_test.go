package selection

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/models"
)

func testBill() *models.Bill {
	return &models.Bill{
		GroupID:    "g1",
		UploaderID: "alice",
		Items: []models.Item{
			{Index: 0, Name: "Paneer Tikka", Quantity: 2, PricePerUnit: decimal.NewFromInt(250)},
			{Index: 1, Name: "Lassi", Quantity: 1, PricePerUnit: decimal.NewFromInt(80)},
		},
		Selections: models.Selections{},
	}
}

func TestEnsure(t *testing.T) {
	bill := testBill()

	sel, err := Ensure(bill, "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, models.Selection{}, sel)

	_, ok := bill.Selections.Get("bob", 0)
	assert.True(t, ok, "Ensure should create the selection")

	// Existing selections are left alone.
	_, err = Increase(bill, "bob", 0)
	require.NoError(t, err)
	sel, err = Ensure(bill, "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, models.Selection{Selected: true, Quantity: 1}, sel)
}

func TestEnsureAll(t *testing.T) {
	bill := testBill()
	require.NoError(t, EnsureAll(bill, "carol"))
	assert.Len(t, bill.Selections["carol"], 2)
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name     string
		start    models.Selection
		selected bool
		want     models.Selection
	}{
		{"off to on claims one unit", models.Selection{}, true, models.Selection{Selected: true, Quantity: 1}},
		{"on to off releases everything", models.Selection{Selected: true, Quantity: 2}, false, models.Selection{}},
		{"on stays on", models.Selection{Selected: true, Quantity: 2}, true, models.Selection{Selected: true, Quantity: 2}},
		{"off stays off", models.Selection{}, false, models.Selection{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := testBill()
			bill.Selections.Set("bob", 0, tt.start)

			got, err := Toggle(bill, "bob", 0, tt.selected)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			stored, _ := bill.Selections.Get("bob", 0)
			assert.Equal(t, tt.want, stored)
		})
	}
}

func TestToggle_Idempotent(t *testing.T) {
	bill := testBill()

	_, err := Toggle(bill, "bob", 0, true)
	require.NoError(t, err)
	first := bill.Selections.Clone()

	_, err = Toggle(bill, "bob", 0, true)
	require.NoError(t, err)
	assert.Equal(t, first, bill.Selections)
}

func TestIncrease_LimitExceeded(t *testing.T) {
	bill := testBill()
	bill.Selections.Set("bob", 0, models.Selection{Selected: true, Quantity: 2})

	sel, err := Increase(bill, "bob", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuantityLimitExceeded))

	var qerr *QuantityError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "Paneer Tikka", qerr.Item)
	assert.Equal(t, 2, qerr.Max)
	assert.Equal(t, "cannot exceed original quantity (2) for Paneer Tikka", err.Error())

	assert.Equal(t, models.Selection{Selected: true, Quantity: 2}, sel)
	stored, _ := bill.Selections.Get("bob", 0)
	assert.Equal(t, 2, stored.Quantity, "state must be unchanged")
}

func TestIncrease_FromZeroTicks(t *testing.T) {
	bill := testBill()

	sel, err := Increase(bill, "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, models.Selection{Selected: true, Quantity: 1}, sel)

	sel, err = Increase(bill, "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Quantity)
}

func TestDecrease(t *testing.T) {
	tests := []struct {
		name    string
		start   *models.Selection
		want    models.Selection
		wantErr error
	}{
		{"two to one", &models.Selection{Selected: true, Quantity: 2}, models.Selection{Selected: true, Quantity: 1}, nil},
		{"one is the minimum", &models.Selection{Selected: true, Quantity: 1}, models.Selection{Selected: true, Quantity: 1}, ErrMinimumQuantityReached},
		{"zero stays zero", &models.Selection{}, models.Selection{}, ErrAlreadyZero},
		{"absent is zero", nil, models.Selection{}, ErrAlreadyZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := testBill()
			if tt.start != nil {
				bill.Selections.Set("bob", 0, *tt.start)
			}
			before := bill.Selections.Clone()

			got, err := Decrease(bill, "bob", 0)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, bill.Selections, "rejected mutation must not change state")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDecrease_ToZeroRequiresToggle(t *testing.T) {
	bill := testBill()
	bill.Selections.Set("bob", 0, models.Selection{Selected: true, Quantity: 1})

	_, err := Decrease(bill, "bob", 0)
	require.ErrorIs(t, err, ErrMinimumQuantityReached)

	sel, err := Toggle(bill, "bob", 0, false)
	require.NoError(t, err)
	assert.Equal(t, models.Selection{}, sel)
}

func TestUnknownItemAndEmptyBill(t *testing.T) {
	bill := testBill()
	_, err := Increase(bill, "bob", 7)
	assert.ErrorIs(t, err, ErrUnknownItem)

	empty := &models.Bill{GroupID: "g2"}
	_, err = Toggle(empty, "bob", 0, true)
	assert.ErrorIs(t, err, ErrNoBill)
}

func TestRandomMutationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	bill := testBill()
	members := []string{"alice", "bob", "carol"}

	for i := 0; i < 2000; i++ {
		member := members[rng.Intn(len(members))]
		key := models.ItemKey(rng.Intn(len(bill.Items)))

		var err error
		switch rng.Intn(4) {
		case 0:
			_, err = Ensure(bill, member, key)
		case 1:
			_, err = Toggle(bill, member, key, rng.Intn(2) == 0)
		case 2:
			_, err = Increase(bill, member, key)
		case 3:
			_, err = Decrease(bill, member, key)
		}
		var qerr *QuantityError
		if err != nil && !errors.As(err, &qerr) {
			t.Fatalf("unexpected error at step %d: %v", i, err)
		}
		require.NoError(t, CheckInvariants(bill), "step %d", i)
	}
}
