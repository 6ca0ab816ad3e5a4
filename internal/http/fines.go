package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mrlokans/librarian/internal/fines"
)

type FineResponse struct {
	DaysOverdue int    `json:"days_overdue"`
	DailyRate   string `json:"daily_rate"`
	Fine        string `json:"fine"`
}

type FinesController struct {
	calc *fines.Calculator
}

func NewFinesController(calc *fines.Calculator) *FinesController {
	if calc == nil {
		calc = fines.NewCalculator(fines.DefaultDailyRate)
	}
	return &FinesController{calc: calc}
}

// CalculateFine computes the fine for ?days=N, optionally at ?rate=R instead
// of the configured daily rate.
func (fc *FinesController) CalculateFine(c *gin.Context) {
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil {
		respondBadRequest(c, "days must be an integer")
		return
	}

	rate := fc.calc.DailyRate
	if raw, ok := c.GetQuery("rate"); ok {
		rate, err = decimal.NewFromString(raw)
		if err != nil || rate.IsNegative() {
			respondBadRequest(c, "rate must be a non-negative decimal")
			return
		}
	}

	fine, err := fines.CalculateFine(days, rate)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, FineResponse{
		DaysOverdue: days,
		DailyRate:   rate.String(),
		Fine:        fine.StringFixed(2),
	})
}
