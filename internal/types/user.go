package types

// UserResponse is the account shape exposed to clients. Password hashes
// never leave the models package.
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
