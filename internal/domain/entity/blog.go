package entity

import "time"

// BlogPost is a document in the blog collection
type BlogPost struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Status    string    `json:"status" db:"status"`
	Amount    *float64  `json:"amount,omitempty" db:"amount"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Document returns the post's fields as seen by step conditions
func (p *BlogPost) Document() Document {
	doc := Document{
		"id":      p.ID,
		"title":   p.Title,
		"content": p.Content,
		"status":  p.Status,
	}
	if p.Amount != nil {
		doc["amount"] = *p.Amount
	}
	return doc
}
