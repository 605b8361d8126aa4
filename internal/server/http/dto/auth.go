package dto

// LoginRequest describes email/password payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthData carries the issued token and user profile.
type AuthData struct {
	Token string   `json:"token"`
	User  UserData `json:"user"`
}

// UserData is the public user representation.
type UserData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
