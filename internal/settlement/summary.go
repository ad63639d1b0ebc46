package settlement

import (
	"fmt"
	"sort"

	"github.com/mmynk/billsplit/internal/models"
)

// NoneLabel is shown for members who selected nothing.
const NoneLabel = "None"

// SummarizeSelections lists each member's selected items as
// "name (Qty: n)" in bill order. Members with nothing selected get a
// single NoneLabel entry.
func SummarizeSelections(members []models.Member, items []models.Item, selections models.Selections) map[string][]string {
	ordered := make([]models.Item, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	out := make(map[string][]string, len(members))
	for _, m := range members {
		var lines []string
		for _, item := range ordered {
			sel, ok := selections.Get(m.ID, item.Index)
			if !ok || !sel.Selected {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s (Qty: %d)", item.Name, sel.Quantity))
		}
		if len(lines) == 0 {
			lines = []string{NoneLabel}
		}
		out[m.ID] = lines
	}
	return out
}
