package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkarpova/storefront/internal/domain/errors"
	"github.com/mkarpova/storefront/internal/domain/model"
	"github.com/mkarpova/storefront/internal/server/http/dto"
)

// CatalogHandler manages product and shipping address endpoints.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// CreateProduct handles POST /api/products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Price < 1 {
		c.JSON(http.StatusBadRequest, dto.Fail("name and a positive price are required"))
		return
	}

	product := &model.Product{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Thumbnail:   req.Thumbnail,
	}
	if err := h.facade.CreateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("product creation failed"))
		return
	}

	c.JSON(http.StatusCreated, dto.OK("product created", dto.ToProductData(*product)))
}

// ListProducts handles GET /api/products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("product listing failed"))
		return
	}

	response := make([]dto.ProductData, 0, len(products))
	for _, p := range products {
		response = append(response, dto.ToProductData(p))
	}
	c.JSON(http.StatusOK, dto.OK("products", response))
}

// GetProduct handles GET /api/products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail("product not found"))
	case err != nil:
		c.JSON(http.StatusInternalServerError, dto.Fail("product lookup failed"))
	default:
		c.JSON(http.StatusOK, dto.OK("product", dto.ToProductData(*product)))
	}
}

// CreateAddress handles POST /api/addresses.
func (h *CatalogHandler) CreateAddress(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Street) == "" || strings.TrimSpace(req.City) == "" {
		c.JSON(http.StatusBadRequest, dto.Fail("street and city are required"))
		return
	}

	address := &model.Address{
		UserID:     userID,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	if err := h.facade.CreateAddress(c.Request.Context(), address); err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("address creation failed"))
		return
	}

	c.JSON(http.StatusCreated, dto.OK("address created", dto.ToAddressData(*address)))
}

// ListAddresses handles GET /api/addresses.
func (h *CatalogHandler) ListAddresses(c *gin.Context) {
	userID := CurrentUserID(c)

	addresses, err := h.facade.Addresses(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("address listing failed"))
		return
	}

	response := make([]dto.AddressData, 0, len(addresses))
	for _, a := range addresses {
		response = append(response, dto.ToAddressData(a))
	}
	c.JSON(http.StatusOK, dto.OK("addresses", response))
}

// GetAddress handles GET /api/addresses/:id. A foreign address reads as absent.
func (h *CatalogHandler) GetAddress(c *gin.Context) {
	address, err := h.facade.Address(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail("address not found"))
	case err != nil:
		c.JSON(http.StatusInternalServerError, dto.Fail("address lookup failed"))
	default:
		c.JSON(http.StatusOK, dto.OK("address", dto.ToAddressData(*address)))
	}
}
