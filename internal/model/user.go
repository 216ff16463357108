package model

// User is the identity resolved from a session token. The identity service
// owns the account; only the stable id and profile basics reach this backend.
type User struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    *string `json:"name,omitempty"`
	Picture *string `json:"picture,omitempty"`
}
