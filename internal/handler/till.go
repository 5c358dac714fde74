package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jotadose/palelu-app/internal/apierror"
	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/live"
	"github.com/Jotadose/palelu-app/internal/service"
)

type TillHandler struct {
	svc  service.TillService
	feed *live.Feed
}

func NewTillHandler(svc service.TillService, feed *live.Feed) *TillHandler {
	return &TillHandler{svc: svc, feed: feed}
}

// Open godoc
// @Summary Opens a new cash session
// @Tags till
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenSessionRequest true "Opening cash count"
// @Success 201 {object} dto.SessionReportResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/till/open [post]
func (h *TillHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrSessionAlreadyOpen) {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AddExpense godoc
// @Summary Records an expense against the open session
// @Tags till
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AddExpenseRequest true "Expense data"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/till/expenses [post]
func (h *TillHandler) AddExpense(c *gin.Context) {
	var req dto.AddExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := h.svc.AddExpense(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Counts the drawer and closes the open session
// @Tags till
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseSessionRequest true "Counted cash and notes"
// @Success 200 {object} dto.CloseSessionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/till/close [post]
func (h *TillHandler) Close(c *gin.Context) {
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Active returns the open session with live derived totals.
func (h *TillHandler) Active(c *gin.Context) {
	resp, err := h.svc.Active(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("no active cash session"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report returns the report for one session, open or closed.
func (h *TillHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns a paginated list of closed cash sessions.
func (h *TillHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	resp, err := h.svc.History(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.SessionHistoryResponse{Data: resp, Page: page, Limit: limit})
}

// Stream pushes collection-change notifications as Server-Sent Events.
// Each event carries only the changed topic; dashboards re-fetch the
// corresponding snapshot, so dropped or reordered events are harmless.
func (h *TillHandler) Stream(c *gin.Context) {
	if h.feed == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("live feed unavailable"))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ch := h.feed.Subscribe(c.Request.Context())

	c.Stream(func(w io.Writer) bool {
		topic, ok := <-ch
		if !ok {
			return false
		}
		c.SSEvent("change", topic)
		return true
	})
}
