package dto

import (
	"time"

	"github.com/mkarpova/storefront/internal/domain/model"
)

// ProductRequest is the payload for product creation.
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Thumbnail   string `json:"thumbnail"`
}

// ProductData is the public product representation.
type ProductData struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToProductData maps the domain product to its response form.
func ToProductData(p model.Product) ProductData {
	return ProductData{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Thumbnail:   p.Thumbnail,
		CreatedAt:   p.CreatedAt,
	}
}

// AddressRequest is the payload for shipping address creation.
type AddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// AddressData is the public address representation.
type AddressData struct {
	ID         string    `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToAddressData maps the domain address to its response form.
func ToAddressData(a model.Address) AddressData {
	return AddressData{
		ID:         a.ID,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		CreatedAt:  a.CreatedAt,
	}
}
