package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jotadose/palelu-app/internal/apierror"
	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/middleware"
	"github.com/Jotadose/palelu-app/internal/service"
)

type CartHandler struct{ svc service.CartService }

func NewCartHandler(svc service.CartService) *CartHandler { return &CartHandler{svc: svc} }

func callerID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("invalid user id in token"))
		return uuid.Nil, false
	}
	return id, true
}

// Get returns the caller's current cart.
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary Adds a product to the caller's cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AddCartItemRequest true "Product and quantity"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.AddCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		if err == service.ErrProductNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	var req dto.SetCartQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetQuantity(c.Request.Context(), userID, productID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.svc.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
