package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Account is a storefront user identified by phone number. TelegramID is
// filled in once the user links the storefront bot and is the delivery
// address for status notifications.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID               int64     `bun:",pk,autoincrement"`
	Phone            string    `bun:"phone,notnull,unique"`
	PasswordHash     string    `bun:"password_hash,notnull"`
	TelegramID       string    `bun:"telegram_id,nullzero"`
	TelegramUsername string    `bun:"telegram_username,nullzero"`
	IsAdmin          bool      `bun:"is_admin,notnull,default:false"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
