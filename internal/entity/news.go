package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// News is a storefront announcement authored by an administrator.
type News struct {
	bun.BaseModel `bun:"table:news,alias:n"`

	ID        int64     `bun:",pk,autoincrement"`
	Title     string    `bun:"title,notnull"`
	Content   string    `bun:"content,notnull"`
	Image     string    `bun:"image,nullzero"`
	AuthorID  int64     `bun:"author_id,notnull"`
	Author    *Account  `bun:"rel:belongs-to,join:author_id=id"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}
