package entity

// Identity is the set of facts the session layer supplies about the caller.
// It is carried through the request context; services never reach into
// session state themselves.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
