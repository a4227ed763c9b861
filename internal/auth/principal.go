package auth

// Principal is the capability-resolved identity of a request. It is built
// once at authentication time and passed explicitly into services, so
// admin checks never require a second account lookup.
type Principal struct {
	AccountID int64
	Phone     string
	Admin     bool
}

// Owns reports whether the principal owns the given account id.
func (p Principal) Owns(accountID int64) bool {
	return p.AccountID == accountID
}

// CanAccessOrderOf reports whether the principal may read an order owned by
// accountID: either the owner or an administrator.
func (p Principal) CanAccessOrderOf(accountID int64) bool {
	return p.Admin || p.Owns(accountID)
}
