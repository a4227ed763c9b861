package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Product is a sellable catalog item. Price is the current unit price;
// orders snapshot it at creation time and are not affected by later edits.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64           `bun:",pk,autoincrement"`
	Name        string          `bun:"name,notnull"`
	Description string          `bun:"description,notnull"`
	Price       decimal.Decimal `bun:"price,notnull,type:numeric(14,2)"`
	Image       string          `bun:"image,nullzero"`
	InStock     bool            `bun:"in_stock,notnull,default:true"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero"`
}
