package usecase

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
)

var validate = validator.New()

// OrderItemRequest is one requested line item. The unit price is echoed into
// the order snapshot; the order total is always recomputed server-side.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
	UnitPrice int64  `json:"unit_price" validate:"required,min=1"`
}

// CreateOrderRequest is the payload for both order creation flows.
type CreateOrderRequest struct {
	Items             []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddressID string             `json:"shipping_address" validate:"required"`
}

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// ValidateStruct runs the pure validation stage over a request, before any
// store interaction. Failures carry a single human-readable message.
func ValidateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if ok := asValidationErrors(err, &vErrs); ok && len(vErrs) > 0 {
		return fmt.Errorf("%w: %s", domainErrors.ErrValidation, fieldMessage(vErrs[0]))
	}
	return fmt.Errorf("%w: %s", domainErrors.ErrValidation, err.Error())
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	vErrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = vErrs
	}
	return ok
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
