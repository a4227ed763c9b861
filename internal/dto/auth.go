package dto

import (
	"time"

	"github.com/karavan-market/karavan/internal/entity"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AccountProfile is the account as exposed to its owner.
type AccountProfile struct {
	ID               int64     `json:"id"`
	Phone            string    `json:"phone"`
	TelegramUsername string    `json:"telegram_username,omitempty"`
	IsAdmin          bool      `json:"is_admin"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuthResponse carries a freshly issued token and the profile it belongs to.
type AuthResponse struct {
	Token   string         `json:"token"`
	Account AccountProfile `json:"account"`
}

// ToAccountProfile maps an account entity onto its transport shape.
func ToAccountProfile(a *entity.Account) AccountProfile {
	return AccountProfile{
		ID:               a.ID,
		Phone:            a.Phone,
		TelegramUsername: a.TelegramUsername,
		IsAdmin:          a.IsAdmin,
		CreatedAt:        a.CreatedAt,
	}
}
