package handler

import (
	"net/http"

	"posledger/internal/service"

	"github.com/gin-gonic/gin"
)

type CashflowHandler struct{ svc service.CashflowService }

func NewCashflowHandler(svc service.CashflowService) *CashflowHandler {
	return &CashflowHandler{svc: svc}
}

// Summarize godoc
// @Summary      Daily cash reconciliation
// @Description  Per-channel totals for one date: new sales by cash/card/UPI plus credit cleared that day broken out by settlement channel. Each invoice counts exactly once.
// @Tags         cashflow
// @Produce      json
// @Param        date path string true "ISO date YYYY-MM-DD"
// @Success      200  {object} dto.CashflowSummary
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cashflow/{date} [get]
func (h *CashflowHandler) Summarize(c *gin.Context) {
	resp, err := h.svc.Summarize(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TodayTotals godoc
// @Summary      Today's total sales
// @Tags         cashflow
// @Produce      json
// @Success      200 {object} dto.TodayTotalsResponse
// @Router       /v1/invoices/totals/today [get]
func (h *CashflowHandler) TodayTotals(c *gin.Context) {
	resp, err := h.svc.TodayTotals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
