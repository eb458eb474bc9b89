package domain

// Record is a single project or task row owned by a user.
// Display holds the resource's display column (name or title).
type Record struct {
	ID      int64
	Display string
	Owner   string
}

// User is the identity attached to an active session.
type User struct {
	ID    string
	Email string
}

// Label returns the email when known, otherwise the opaque ID.
func (u *User) Label() string {
	if u == nil {
		return ""
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
