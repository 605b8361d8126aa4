package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mkarpova/storefront/internal/domain/model"
)

// OrderItemData is a line item snapshot in responses.
type OrderItemData struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderData is the public order representation.
type OrderData struct {
	ID              string          `json:"id"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []OrderItemData `json:"items"`
	Subtotal        int64           `json:"subtotal"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CheckoutData carries the gateway redirect for hosted payment.
type CheckoutData struct {
	RedirectURL string `json:"redirect_url"`
}

// UpdateStatusRequest is the payload for a fulfilment status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToOrderData maps the domain order to its response form.
func ToOrderData(order model.Order) OrderData {
	items := make([]OrderItemData, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return OrderData{
		ID:              order.ID,
		ShippingAddress: order.ShippingAddressID,
		Items:           items,
		Subtotal:        order.Subtotal,
		Status:          string(order.Status),
		PaymentStatus:   string(order.PaymentStatus),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// queryValues is the subset of gin's query access used when parsing filters.
type queryValues interface {
	Query(key string) string
}

// ParseOrderFilter maps raw list query parameters onto the typed filter.
// Unknown parameters are ignored; malformed values of known parameters are an
// error so clients never get silently unfiltered results.
func ParseOrderFilter(q queryValues) (model.OrderFilter, error) {
	var filter model.OrderFilter

	if raw := q.Query("status"); raw != "" {
		status := model.OrderStatus(raw)
		filter.Status = &status
	}
	if raw := q.Query("product"); raw != "" {
		productID := raw
		filter.ProductID = &productID
	}
	if raw := q.Query("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid from date: %s", raw)
		}
		filter.CreatedFrom = &ts
	}
	if raw := q.Query("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid to date: %s", raw)
		}
		filter.CreatedTo = &ts
	}

	filter.SortBy = q.Query("sort_by")
	filter.SortOrder = model.SortOrder(q.Query("sort_order"))

	if raw := q.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid page: %s", raw)
		}
		filter.Page = page
	}
	if raw := q.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid page_size: %s", raw)
		}
		filter.PageSize = size
	}

	filter.Normalize()
	return filter, nil
}
