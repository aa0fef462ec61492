package handler

import (
	"errors"
	"fmt"
	"net/http"

	"posledger/internal/apierror"
	"posledger/internal/dto"
	"posledger/internal/repository"
	"posledger/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WalletHandler exposes the customer wallet to the due-bills screen: read the
// available balance before clearing, and top it up. The customer directory
// itself (registration, edits) is owned by another system; this handler talks
// to the same table the settlement engine debits.
type WalletHandler struct{ customers repository.CustomerRepository }

func NewWalletHandler(customers repository.CustomerRepository) *WalletHandler {
	return &WalletHandler{customers: customers}
}

// Get godoc
// @Summary      Customer wallet balance
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} dto.WalletResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/customers/{id}/wallet [get]
func (h *WalletHandler) Get(c *gin.Context) {
	customer, err := h.customers.FindByCustomerID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: %s", service.ErrCustomerNotFound, c.Param("id")))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.WalletResponse{
		CustomerID: customer.CustomerID,
		Name:       customer.Name,
		WalletBal:  customer.WalletBal,
	})
}

// Credit godoc
// @Summary      Top up a customer wallet
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id   path string                  true "Customer ID"
// @Param        body body dto.CreditWalletRequest true "Amount to add"
// @Success      200  {object} dto.WalletResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/customers/{id}/wallet/credit [post]
func (h *WalletHandler) Credit(c *gin.Context) {
	var req dto.CreditWalletRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Amount.Sign() <= 0 {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("amount must be positive"))
		return
	}

	rows, err := h.customers.CreditWallet(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if rows == 0 {
		respondError(c, fmt.Errorf("%w: %s", service.ErrCustomerNotFound, c.Param("id")))
		return
	}
	h.Get(c)
}
