package domain

// User is a store operator. Password holds a bcrypt hash and never leaves the
// service layer; use Public before returning a user to a caller.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

func (u *User) RecordID() string      { return u.ID }
func (u *User) SetRecordID(id string) { u.ID = id }

// Public returns a copy of u with the password stripped.
func (u User) Public() User {
	u.Password = ""
	return u
}
