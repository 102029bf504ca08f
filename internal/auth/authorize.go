package auth

// HasRole returns true if the identity's role is in the allowed set.
// Used to gate admin-only capabilities such as the audit trail.
func HasRole(identity Identity, allowed ...Role) bool {
	for _, r := range allowed {
		if identity.Role == r {
			return true
		}
	}
	return false
}

// CanMutate decides whether an identity may modify a resource owned by
// ownerID: the owner themselves, or any admin.
//
// Pure decision, no side effects. Callers must check the resource exists
// BEFORE calling this, so a missing resource yields 404 rather than 403.
func CanMutate(identity Identity, ownerID string) bool {
	if identity.Role == RoleAdmin {
		return true
	}
	return identity.ID != "" && identity.ID == ownerID
}
