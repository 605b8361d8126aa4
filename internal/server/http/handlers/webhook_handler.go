package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
	"github.com/mkarpova/storefront/internal/server/http/dto"
)

// signatureHeader carries the gateway's payload signature.
const signatureHeader = "Stripe-Signature"

// WebhookHandler receives payment gateway notifications.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Handle processes POST /api/webhook. The raw body is verified against the
// signature header before any parsing, so this route must see the request
// body untouched by other middleware.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("unreadable payload"))
		return
	}

	err = h.facade.HandleGatewayEvent(c.Request.Context(), payload, c.GetHeader(signatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidSignature):
			c.JSON(http.StatusBadRequest, dto.Fail("invalid signature"))
		case errors.Is(err, domainErrors.ErrUnknownCorrelation):
			c.JSON(http.StatusBadRequest, dto.Fail("unknown session correlation"))
		case errors.Is(err, domainErrors.ErrAmountMismatch):
			c.JSON(http.StatusBadRequest, dto.Fail("amount mismatch"))
		default:
			// Store failures must be retried by the gateway.
			c.JSON(http.StatusInternalServerError, dto.Fail("event processing failed"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.OK("received", nil))
}
