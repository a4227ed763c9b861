package dto

import (
	"time"

	"github.com/karavan-market/karavan/internal/entity"
)

// NewsRequest is the admin payload for creating or updating a news item.
type NewsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

// NewsResponse represents a news item over transport layers.
type NewsResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Image       string    `json:"image,omitempty"`
	AuthorID    int64     `json:"author_id"`
	AuthorPhone string    `json:"author_phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToNewsResponse maps a news entity onto its transport shape.
func ToNewsResponse(n *entity.News) NewsResponse {
	out := NewsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Image:     n.Image,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.Author != nil {
		out.AuthorPhone = n.Author.Phone
	}
	return out
}

// ToNewsResponses maps a slice of news entities.
func ToNewsResponses(items []entity.News) []NewsResponse {
	out := make([]NewsResponse, 0, len(items))
	for i := range items {
		out = append(out, ToNewsResponse(&items[i]))
	}
	return out
}
