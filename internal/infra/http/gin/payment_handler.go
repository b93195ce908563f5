package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	PaymentApp "github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/payment"
)

type PaymentHandler struct {
	Commands commands.Bus
}

type recordPaymentRequest struct {
	LenderID     string `json:"lender_id"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExchangeRate string `json:"exchange_rate"`
	LoanID       string `json:"loan_id"`
}

func (h PaymentHandler) Record(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := PaymentApp.RecordPaymentCommand{
		PaymentID:    uuid.NewString(),
		LenderID:     req.LenderID,
		Date:         req.Date,
		Amount:       req.Amount,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		LoanID:       req.LoanID,
	}
	result, err := commands.Dispatch[PaymentApp.RecordPaymentCommand, *dto.PaymentReceipt](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

var _ PaymentHTTP = PaymentHandler{}
