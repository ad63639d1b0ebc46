// Package selection implements the mutation contract for members' item
// selections on a bill.
//
// Every operation mutates bill.Selections in place and never lets a
// quantity leave [0, item.Quantity]: out-of-range requests are rejected
// with a *QuantityError and leave the selection untouched. Callers persist
// the whole selections map after each successful call.
package selection

import (
	"errors"
	"fmt"

	"github.com/mmynk/billsplit/internal/models"
)

var (
	ErrQuantityLimitExceeded  = errors.New("quantity limit exceeded")
	ErrMinimumQuantityReached = errors.New("minimum quantity reached")
	ErrAlreadyZero            = errors.New("quantity already zero")
	ErrUnknownItem            = errors.New("unknown item")
	ErrNoBill                 = errors.New("no items loaded")
)

// QuantityError reports a rejected quantity change. Its message is meant
// for the acting member.
type QuantityError struct {
	Item string
	Max  int
	Err  error
}

func (e *QuantityError) Error() string {
	switch e.Err {
	case ErrQuantityLimitExceeded:
		return fmt.Sprintf("cannot exceed original quantity (%d) for %s", e.Max, e.Item)
	case ErrMinimumQuantityReached:
		return fmt.Sprintf("minimum quantity is 1 for %s - untick it if you did not order it", e.Item)
	case ErrAlreadyZero:
		return fmt.Sprintf("quantity is already 0 for %s", e.Item)
	default:
		return fmt.Sprintf("%s: %v", e.Item, e.Err)
	}
}

func (e *QuantityError) Unwrap() error { return e.Err }

// lookup resolves the item and the member's current selection, which is
// the zero Selection when absent. It does not write.
func lookup(bill *models.Bill, memberID string, key models.ItemKey) (models.Item, models.Selection, error) {
	if bill.State() == models.BillEmpty {
		return models.Item{}, models.Selection{}, ErrNoBill
	}
	item, ok := bill.Item(key)
	if !ok {
		return models.Item{}, models.Selection{}, fmt.Errorf("%w: %d", ErrUnknownItem, key)
	}
	if bill.Selections == nil {
		bill.Selections = make(models.Selections)
	}
	sel, _ := bill.Selections.Get(memberID, key)
	return item, sel, nil
}

// Ensure creates an unselected, zero-quantity selection if none exists.
func Ensure(bill *models.Bill, memberID string, key models.ItemKey) (models.Selection, error) {
	_, sel, err := lookup(bill, memberID, key)
	if err != nil {
		return models.Selection{}, err
	}
	if _, ok := bill.Selections.Get(memberID, key); !ok {
		bill.Selections.Set(memberID, key, sel)
	}
	return sel, nil
}

// EnsureAll ensures a selection for every item on the bill.
func EnsureAll(bill *models.Bill, memberID string) error {
	for _, item := range bill.Items {
		if _, err := Ensure(bill, memberID, item.Index); err != nil {
			return err
		}
	}
	return nil
}

// Toggle ticks or unticks an item. Ticking an item with no quantity claims
// one unit; unticking releases every unit. Same value is a no-op.
func Toggle(bill *models.Bill, memberID string, key models.ItemKey, selected bool) (models.Selection, error) {
	_, sel, err := lookup(bill, memberID, key)
	if err != nil {
		return models.Selection{}, err
	}
	if sel.Selected == selected {
		return sel, nil
	}

	if selected {
		sel.Selected = true
		if sel.Quantity == 0 {
			sel.Quantity = 1
		}
	} else {
		sel = models.Selection{}
	}
	bill.Selections.Set(memberID, key, sel)
	return sel, nil
}

// Increase claims one more unit, ticking the item.
func Increase(bill *models.Bill, memberID string, key models.ItemKey) (models.Selection, error) {
	item, sel, err := lookup(bill, memberID, key)
	if err != nil {
		return models.Selection{}, err
	}
	if sel.Quantity >= item.Quantity {
		return sel, &QuantityError{Item: item.Name, Max: item.Quantity, Err: ErrQuantityLimitExceeded}
	}

	sel.Quantity++
	sel.Selected = true
	bill.Selections.Set(memberID, key, sel)
	return sel, nil
}

// Decrease releases one unit. It never reaches zero; unticking via Toggle
// is the only way to drop a claim entirely.
func Decrease(bill *models.Bill, memberID string, key models.ItemKey) (models.Selection, error) {
	item, sel, err := lookup(bill, memberID, key)
	if err != nil {
		return models.Selection{}, err
	}
	switch {
	case sel.Quantity == 0:
		return sel, &QuantityError{Item: item.Name, Max: item.Quantity, Err: ErrAlreadyZero}
	case sel.Quantity == 1:
		return sel, &QuantityError{Item: item.Name, Max: item.Quantity, Err: ErrMinimumQuantityReached}
	}

	sel.Quantity--
	sel.Selected = true
	bill.Selections.Set(memberID, key, sel)
	return sel, nil
}

// CheckInvariants verifies every stored selection against its item.
func CheckInvariants(bill *models.Bill) error {
	for memberID, items := range bill.Selections {
		for key, sel := range items {
			item, ok := bill.Item(key)
			if !ok {
				return fmt.Errorf("member %s: %w: %d", memberID, ErrUnknownItem, key)
			}
			if sel.Quantity < 0 || sel.Quantity > item.Quantity {
				return fmt.Errorf("member %s item %d: quantity %d outside [0, %d]", memberID, key, sel.Quantity, item.Quantity)
			}
			if sel.Selected != (sel.Quantity > 0) {
				return fmt.Errorf("member %s item %d: selected=%t with quantity %d", memberID, key, sel.Selected, sel.Quantity)
			}
		}
	}
	return nil
}
