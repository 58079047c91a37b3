package shortlink

// Owner is the two-state ownership of a link: owned by a caller identity,
// or unowned. An unowned link is public and may be read, updated, and
// deleted by anyone. Using a dedicated type instead of a nullable string
// forces every access-control site to handle the unowned branch.
//
// The zero value is Unowned.
type Owner struct {
	id      string
	present bool
}

// OwnedBy returns an Owner for the given caller identity.
// An empty identity yields Unowned.
func OwnedBy(id string) Owner {
	if id == "" {
		return Owner{}
	}
	return Owner{id: id, present: true}
}

// Unowned returns the ownerless state.
func Unowned() Owner { return Owner{} }

// Present reports whether the link has an owner.
func (o Owner) Present() bool { return o.present }

// ID returns the owner identity, or "" for an unowned link.
func (o Owner) ID() string { return o.id }

// Is reports whether callerID is the owner. Always false for Unowned:
// an unowned link has no owner to match, not a wildcard owner.
func (o Owner) Is(callerID string) bool {
	return o.present && o.id == callerID
}

func (o Owner) String() string {
	if !o.present {
		return "unowned"
	}
	return o.id
}
