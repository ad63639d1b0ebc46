package models

// Group is a set of people who split bills together.
// The owner is always a member.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string

	// OwnerID is the user who created the group. Only the owner adds members.
	OwnerID string

	// Members holds every member including the owner, owner first.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether the user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	_, ok := FindMember(g.Members, userID)
	return ok
}
