package handler

import (
	"net/http"

	"posledger/internal/dto"
	"posledger/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct {
	svc        service.InvoiceService
	settlement service.SettlementService
}

func NewInvoicesHandler(svc service.InvoiceService, settlement service.SettlementService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc, settlement: settlement}
}

// Create godoc
// @Summary      Create an invoice
// @Description  Allocates the next invoice number and persists the bill. Credit bills start as due.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateInvoiceRequest true "Customer snapshot, items and totals"
// @Success      201  {object} dto.CreateInvoiceResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/invoices [post]
func (h *InvoicesHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List invoices
// @Description  Paginated ledger listing, newest first.
// @Tags         invoices
// @Produce      json
// @Param        page  query int false "Page (default 1)"
// @Param        limit query int false "Records per page (default 50)"
// @Success      200   {object} dto.InvoiceListResponse
// @Router       /v1/invoices [get]
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByNumber godoc
// @Summary      Fetch one invoice
// @Tags         invoices
// @Produce      json
// @Param        number path string true "Invoice number, e.g. INV1000"
// @Success      200    {object} dto.InvoiceResponse
// @Failure      404    {object} apierror.APIError
// @Router       /v1/invoices/{number} [get]
func (h *InvoicesHandler) GetByNumber(c *gin.Context) {
	resp, err := h.svc.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListDue godoc
// @Summary      List due bills
// @Description  All credit invoices not yet settled.
// @Tags         invoices
// @Produce      json
// @Success      200 {array} dto.InvoiceResponse
// @Router       /v1/invoices/due [get]
func (h *InvoicesHandler) ListDue(c *gin.Context) {
	resp, err := h.svc.ListDue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Clear godoc
// @Summary      Clear a due bill
// @Description  Debits the customer wallet and marks the bill cleared, atomically. Re-clearing fails with 409.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        number path string               true "Invoice number"
// @Param        body   body dto.ClearBillRequest true "How the bill was settled"
// @Success      200    {object} dto.InvoiceResponse
// @Failure      404    {object} apierror.APIError
// @Failure      409    {object} apierror.APIError
// @Router       /v1/invoices/{number}/clear [patch]
func (h *InvoicesHandler) Clear(c *gin.Context) {
	var req dto.ClearBillRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.settlement.Clear(c.Request.Context(), c.Param("number"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOnDate godoc
// @Summary      List invoices created on a date
// @Tags         invoices
// @Produce      json
// @Param        date path string true "ISO date YYYY-MM-DD"
// @Success      200  {array} dto.InvoiceResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/invoices/date/{date} [get]
func (h *InvoicesHandler) ListOnDate(c *gin.Context) {
	resp, err := h.svc.ListOnDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListClearedOrCreatedOn godoc
// @Summary      List invoices created or cleared on a date
// @Description  Raw union of both fetches; an invoice created and cleared the same day appears twice. Consumers that aggregate must de-duplicate (the cashflow summary does).
// @Tags         invoices
// @Produce      json
// @Param        date path string true "ISO date YYYY-MM-DD"
// @Success      200  {array} dto.InvoiceResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/invoices/cleared-or-created/{date} [get]
func (h *InvoicesHandler) ListClearedOrCreatedOn(c *gin.Context) {
	resp, err := h.svc.ListClearedOrCreatedOn(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
