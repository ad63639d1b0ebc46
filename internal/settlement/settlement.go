package settlement

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/models"
)

var ErrNotMember = errors.New("viewer is not a member of this bill's group")

// PayerView is what a non-uploader sees: what they owe and whom to pay.
type PayerView struct {
	AmountOwed decimal.Decimal
	Items      []calculator.ItemShare
	TaxShare   decimal.Decimal

	PayToID      string
	PayToName    string
	PayToAddress string

	// PaymentLink is empty when the uploader has no payout address.
	PaymentLink string
	// Warning explains why PaymentLink is missing.
	Warning string
}

// HasPaymentLink reports whether the view can be paid directly.
func (v *PayerView) HasPaymentLink() bool {
	return v.PaymentLink != ""
}

// Lines renders the itemized breakdown as "name (Qty: n): ₹x".
func (v *PayerView) Lines() []string {
	lines := make([]string, len(v.Items))
	for i, item := range v.Items {
		lines[i] = fmt.Sprintf("%s (Qty: %d): %s", item.Name, item.Quantity, FormatAmount(item.Cost))
	}
	return lines
}

// MemberOwed is one row of the uploader's collection list.
type MemberOwed struct {
	MemberID string
	Name     string
	Amount   decimal.Decimal
}

// CollectorView is what the uploader sees: what everyone else owes them.
type CollectorView struct {
	PerMemberOwed []MemberOwed
}

// Total sums what the uploader is owed.
func (v *CollectorView) Total() decimal.Decimal {
	total := decimal.Zero
	for _, m := range v.PerMemberOwed {
		total = total.Add(m.Amount)
	}
	return total
}

// View holds exactly one of Payer or Collector.
type View struct {
	Payer     *PayerView
	Collector *CollectorView
}

// Settlement renders an allocation for any member of the group.
type Settlement struct {
	uploaderID string
	members    []models.Member
	allocation *calculator.Allocation
}

// Build prepares a settlement for the bill uploaded by uploaderID. Members
// should be the same list the allocation was computed for.
func Build(uploaderID string, members []models.Member, allocation *calculator.Allocation) *Settlement {
	return &Settlement{
		uploaderID: uploaderID,
		members:    members,
		allocation: allocation,
	}
}

// ForViewer returns the uploader a CollectorView and anyone else a PayerView.
func (s *Settlement) ForViewer(memberID string) (View, error) {
	if memberID == s.uploaderID {
		return View{Collector: s.collectorView()}, nil
	}

	total := s.allocation.For(memberID)
	if total == nil {
		return View{}, fmt.Errorf("%w: %s", ErrNotMember, memberID)
	}

	payee, ok := models.FindMember(s.members, s.uploaderID)
	if !ok {
		payee = models.Member{ID: s.uploaderID, DisplayName: s.uploaderID}
	}

	view := &PayerView{
		AmountOwed:   total.Amount,
		Items:        total.Items,
		TaxShare:     total.TaxShare,
		PayToID:      payee.ID,
		PayToName:    payee.DisplayName,
		PayToAddress: payee.PayoutAddress,
	}
	if payee.PayoutAddress != "" {
		view.PaymentLink = PaymentLink(payee.PayoutAddress, payee.DisplayName, total.Amount)
	} else {
		view.Warning = fmt.Sprintf("%s has not set a UPI ID.", payee.DisplayName)
	}
	return View{Payer: view}, nil
}

func (s *Settlement) collectorView() *CollectorView {
	view := &CollectorView{PerMemberOwed: []MemberOwed{}}
	for _, m := range s.members {
		if m.ID == s.uploaderID {
			continue
		}
		total := s.allocation.For(m.ID)
		if total == nil {
			continue
		}
		view.PerMemberOwed = append(view.PerMemberOwed, MemberOwed{
			MemberID: m.ID,
			Name:     m.DisplayName,
			Amount:   total.Amount,
		})
	}
	return view
}
