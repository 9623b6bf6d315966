package models

// User is a registered account. Guests never get a row.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// RegisterRequest is the body of POST /api/users/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=20"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse identifies the new account and the session id its browser will use.
type RegisterResponse struct {
	User
	PlayerID string `json:"player_id"`
}

// LoginResponse carries the bearer token. PlayerID is stable per user so a
// logged-in browser resumes its session.
type LoginResponse struct {
	Token    string `json:"token"`
	PlayerID string `json:"player_id"`
}

// GuestResponse carries a fresh session id for an anonymous player.
type GuestResponse struct {
	PlayerID string `json:"player_id"`
}
