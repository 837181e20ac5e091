package models

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// Owns reports whether the actor owns a record belonging to userID.
func (a Actor) Owns(userID string) bool {
	return a.UserID == userID
}

// CanAccess reports whether the actor may read or modify a record owned by userID.
func (a Actor) CanAccess(userID string) bool {
	return a.IsAdmin || a.Owns(userID)
}
