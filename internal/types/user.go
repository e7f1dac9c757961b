package types

// UserResponse is the public shape of a user account.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsGuest  bool   `json:"is_guest"`
}

// AuthResponse is returned by registration, login and guest login.
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
