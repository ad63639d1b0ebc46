package models

// Selection is one member's claim on one item.
//
// Selected implies Quantity >= 1 and !Selected implies Quantity == 0.
type Selection struct {
	Selected bool `json:"selected"`
	Quantity int  `json:"quantity"`
}

// Selections maps member ID to that member's selections keyed by item.
type Selections map[string]map[ItemKey]Selection

// Get returns the member's selection for an item and whether it exists.
func (s Selections) Get(memberID string, key ItemKey) (Selection, bool) {
	member, ok := s[memberID]
	if !ok {
		return Selection{}, false
	}
	sel, ok := member[key]
	return sel, ok
}

// Set stores a selection, creating the member's map when needed.
func (s Selections) Set(memberID string, key ItemKey, sel Selection) {
	member, ok := s[memberID]
	if !ok {
		member = make(map[ItemKey]Selection)
		s[memberID] = member
	}
	member[key] = sel
}

// Clone returns a deep copy.
func (s Selections) Clone() Selections {
	out := make(Selections, len(s))
	for memberID, items := range s {
		copied := make(map[ItemKey]Selection, len(items))
		for k, v := range items {
			copied[k] = v
		}
		out[memberID] = copied
	}
	return out
}
