package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Settings is the single-row store configuration. The prepayment percentage
// here is the default applied to new orders that do not specify one.
type Settings struct {
	bun.BaseModel `bun:"table:settings,alias:s"`

	ID                   int64     `bun:",pk"`
	PrepaymentPercentage float64   `bun:"prepayment_percentage,notnull,default:50"`
	UpdatedAt            time.Time `bun:"updated_at,nullzero"`
}
