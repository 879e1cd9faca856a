// Package model defines domain types for pfm transactions, budgets and reports.
package model

// User is the identity record returned by login and the profile endpoint.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email"`
}

// Session is the authenticated identity held for the duration of client use.
type Session struct {
	Token string
	User  User
}

// Valid reports whether the session carries a token. Validity of the token
// itself is only ever decided by the server.
func (s Session) Valid() bool {
	return s.Token != ""
}
