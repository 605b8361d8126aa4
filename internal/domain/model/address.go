package model

import "time"

// Address is a shipping address owned by a user.
type Address struct {
	ID         string
	UserID     string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	CreatedAt  time.Time
}
