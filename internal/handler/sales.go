package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jotadose/palelu-app/internal/apierror"
	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/repository"
	"github.com/Jotadose/palelu-app/internal/service"
)

type SaleHandler struct{ svc service.SaleService }

func NewSaleHandler(svc service.SaleService) *SaleHandler { return &SaleHandler{svc: svc} }

// Checkout godoc
// @Summary Commits the caller's cart as a sale
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CheckoutRequest true "Payment method and notes"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/sales/checkout [post]
func (h *SaleHandler) Checkout(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			// Lost the race against a concurrent sale or the pre-flight check.
			status = http.StatusConflict
		case errors.Is(err, service.ErrEmptyCart):
			status = http.StatusBadRequest
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary Lists sales, defaulting to today's
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD"
// @Param session_id query string false "Restrict to a till session"
// @Success 200 {object} dto.SaleListResponse
// @Router /v1/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters"))
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
