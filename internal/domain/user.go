package domain

import "time"

// User represents a signed-in person
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	GoogleID  *string   `json:"-"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// GoogleProfile is the subset of the Google userinfo response we persist
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthClaims is the verified identity carried by an access token
type AuthClaims struct {
	Sub       string `json:"sub"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Iat       int64  `json:"iat"`
	Exp       int64  `json:"exp"`
}

// SignInRequest carries a Google OAuth access token obtained by the client
type SignInRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}
