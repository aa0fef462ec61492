package handler

import (
	"errors"
	"net/http"
	"reflect"

	"posledger/internal/apierror"
	"posledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service taxonomy errors onto HTTP statuses. Anything
// unrecognized is attached to the context for the ErrorHandler middleware,
// which logs it and answers 500 without leaking detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound),
		errors.Is(err, service.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, apierror.NewCoded("not_found", err.Error()))
	case errors.Is(err, service.ErrAlreadyCleared):
		c.JSON(http.StatusConflict, apierror.NewCoded("already_cleared", err.Error()))
	case errors.Is(err, service.ErrDuplicateNumber):
		c.JSON(http.StatusConflict, apierror.NewCoded("duplicate_number", err.Error()))
	case errors.Is(err, service.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, apierror.NewCoded("insufficient_balance", err.Error()))
	case errors.Is(err, service.ErrInvalidPaymentMode):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewCoded("invalid_payment_mode", err.Error()))
	case errors.Is(err, service.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, apierror.NewCoded("invalid_date", err.Error()))
	case errors.Is(err, service.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, apierror.NewCoded("store_unavailable", "store temporarily unavailable"))
	default:
		_ = c.Error(err)
	}
}
