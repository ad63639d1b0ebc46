package service

import (
	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/pkg/api"
)

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:            u.ID,
		Phone:         u.Phone,
		DisplayName:   u.DisplayName,
		PayoutAddress: u.PayoutAddress,
	}
}

func groupToAPI(g *models.Group) *api.Group {
	out := &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
		CreatedAt: g.CreatedAt,
	}
	for _, m := range g.Members {
		out.Members = append(out.Members, api.Member{
			ID:            m.ID,
			DisplayName:   m.DisplayName,
			PayoutAddress: m.PayoutAddress,
		})
	}
	return out
}

func selectionToAPI(key models.ItemKey, sel models.Selection) api.Selection {
	return api.Selection{
		ItemIndex: int(key),
		Selected:  sel.Selected,
		Quantity:  sel.Quantity,
	}
}

// billToAPI renders the bill for viewerID. members decides which items
// count as unclaimed.
func billToAPI(groupID string, bill *models.Bill, viewerID string, members []models.Member) *api.Bill {
	out := &api.Bill{
		GroupID:      groupID,
		State:        bill.State().String(),
		Items:        []api.Item{},
		Taxes:        []api.Tax{},
		MySelections: []api.Selection{},
		Unclaimed:    []int{},
	}
	if bill.State() == models.BillEmpty {
		return out
	}

	out.UploaderID = bill.UploaderID
	out.TotalTax = bill.TotalTax()
	out.Version = bill.Version

	for _, item := range bill.Items {
		out.Items = append(out.Items, api.Item{
			Index:        int(item.Index),
			Name:         item.Name,
			MaxQuantity:  item.Quantity,
			PricePerUnit: item.PricePerUnit,
		})
		sel, _ := bill.Selections.Get(viewerID, item.Index)
		out.MySelections = append(out.MySelections, selectionToAPI(item.Index, sel))
	}
	for _, tax := range bill.Taxes {
		out.Taxes = append(out.Taxes, api.Tax{Name: tax.Name, Amount: tax.Amount})
	}

	alloc := calculator.Allocate(bill.Items, bill.Taxes, bill.Selections, models.MemberIDs(members))
	for _, item := range alloc.Unclaimed {
		out.Unclaimed = append(out.Unclaimed, int(item.Index))
	}
	return out
}
