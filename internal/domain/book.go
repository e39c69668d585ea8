package domain

import "time"

type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Active      bool      `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
