package handlers

import (
	"errors"
	"net/http"

	"plan-picker/internal/api/models"
	"plan-picker/internal/fee"
	"plan-picker/internal/lattice"
	"plan-picker/internal/model"

	"github.com/gin-gonic/gin"
)

// ValuationHandler exposes the option pricer and the fee parser directly
type ValuationHandler struct {
	defaultVolatility float64
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(defaultVolatility float64) *ValuationHandler {
	return &ValuationHandler{defaultVolatility: defaultVolatility}
}

// OptionValue handles POST /api/v1/option-value
func (h *ValuationHandler) OptionValue(c *gin.Context) {
	var req models.OptionValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	vol := h.defaultVolatility
	if req.Volatility != nil {
		vol = *req.Volatility
	}
	in := model.ValuationInput{
		ContractRate:    req.ContractRate,
		ReferenceRate:   req.ReferenceRate,
		MonthlyVolume:   req.MonthlyVolume,
		TermMonths:      req.TermMonths,
		CancellationFee: req.CancellationFee,
		Volatility:      vol,
	}

	value, err := lattice.PriceInput(in)
	if err != nil {
		status, code := http.StatusInternalServerError, "VALUATION_ERROR"
		switch {
		case errors.Is(err, lattice.ErrInvalidParameter):
			status, code = http.StatusBadRequest, "INVALID_PARAMETER"
		case errors.Is(err, lattice.ErrNumericOverflow):
			status, code = http.StatusUnprocessableEntity, "NUMERIC_OVERFLOW"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	f, _ := lattice.NewFactors(vol)
	resp := models.OptionValueResponse{
		OptionValue: value,
		Up:          f.Up,
		Down:        f.Down,
		P:           f.P,
		Volatility:  vol,
	}
	if total := in.MonthlyVolume * float64(in.TermMonths); total > 0 {
		resp.OptionPerKWh = value / total
	}
	c.JSON(http.StatusOK, resp)
}

// ParseFee handles POST /api/v1/fees/parse
func (h *ValuationHandler) ParseFee(c *gin.Context) {
	var req models.FeeParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	f, err := fee.Parse(req.Details)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "FEE_NOT_FOUND",
				Message: err.Error(),
			},
		})
		return
	}

	resp := models.FeeParseResponse{Amount: f.Amount, PerMonthRemaining: f.PerMonthRemaining}
	if req.TermMonths > 0 {
		resolved := f.Resolve(req.TermMonths, req.HoldingMonths)
		resp.Resolved = &resolved
	}
	c.JSON(http.StatusOK, resp)
}
