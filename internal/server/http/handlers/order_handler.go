package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
	"github.com/mkarpova/storefront/internal/domain/model"
	"github.com/mkarpova/storefront/internal/server/http/dto"
	"github.com/mkarpova/storefront/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// CreateGateway handles POST /api/orders/pay-on-delivery. Despite the route
// name kept for client compatibility, this is the hosted checkout flow: the
// reply carries the gateway redirect URL.
func (h *OrderHandler) CreateGateway(c *gin.Context) {
	userID := CurrentUserID(c)

	var req usecase.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}

	redirectURL, err := h.facade.CreateGatewayOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("order created", dto.CheckoutData{RedirectURL: redirectURL}))
}

// CreateCash handles POST /api/orders/cash-on-delivery.
func (h *OrderHandler) CreateCash(c *gin.Context) {
	userID := CurrentUserID(c)

	var req usecase.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}

	order, err := h.facade.CreateCashOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK("order created", dto.ToOrderData(*order)))
}

func (h *OrderHandler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail(err.Error()))
	case errors.Is(err, domainErrors.ErrGatewayUnavailable):
		c.JSON(http.StatusBadGateway, dto.Fail("payment gateway unavailable"))
	default:
		c.JSON(http.StatusInternalServerError, dto.Fail("order creation failed"))
	}
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)

	order, err := h.facade.Order(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Fail("order lookup failed"))
		return
	}

	c.JSON(http.StatusOK, dto.OK("order", dto.ToOrderData(*order)))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)

	filter, err := dto.ParseOrderFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	orders, err := h.facade.Orders(c.Request.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, domainErrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Fail("order listing failed"))
		return
	}

	response := make([]dto.OrderData, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.ToOrderData(o))
	}
	c.JSON(http.StatusOK, dto.OK("orders", response))
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("id"), userID, model.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidOrderStatus):
			c.JSON(http.StatusBadRequest, dto.Fail("unknown order status"))
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Fail("order not found"))
		case errors.Is(err, domainErrors.ErrStateConflict):
			c.JSON(http.StatusConflict, dto.Fail("cancelled order cannot change status"))
		default:
			c.JSON(http.StatusInternalServerError, dto.Fail("status update failed"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.OK("status updated", dto.ToOrderData(*order)))
}

// Cancel handles PATCH /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID := CurrentUserID(c)

	order, err := h.facade.CancelOrder(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Fail("order not found"))
		case errors.Is(err, domainErrors.ErrOrderNotCancellable):
			c.JSON(http.StatusConflict, dto.Fail("order can no longer be cancelled"))
		default:
			c.JSON(http.StatusInternalServerError, dto.Fail("cancellation failed"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.OK("order cancelled", dto.ToOrderData(*order)))
}
