package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	BookingApp "github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/booking"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type bookingRequest struct {
	LenderID         string `json:"lender_id"`
	ApartmentID      string `json:"apartment_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	CustomTotalPrice string `json:"custom_total_price"`
	ClearCustomPrice bool   `json:"clear_custom_price"`
	OverrideConfirm  bool   `json:"override_confirm"`
	ExcludeBookingID string `json:"exclude_booking_id"`
}

// Check is the live admission pre-check. It always answers 200 with a
// status field; the form reads the status, never the HTTP code.
func (h BookingHandler) Check(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := BookingApp.CheckBookingQuery{
		LenderID:         req.LenderID,
		ApartmentID:      req.ApartmentID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		CustomTotalPrice: req.CustomTotalPrice,
		OverrideConfirm:  req.OverrideConfirm,
		ExcludeBookingID: req.ExcludeBookingID,
	}
	result, err := queries.Ask[BookingApp.CheckBookingQuery, dto.BookingCheck](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Create(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := BookingApp.CreateBookingCommand{
		BookingID:        uuid.NewString(),
		LenderID:         req.LenderID,
		ApartmentID:      req.ApartmentID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		CustomTotalPrice: req.CustomTotalPrice,
		OverrideConfirm:  req.OverrideConfirm,
	}
	result, err := commands.Dispatch[BookingApp.CreateBookingCommand, *BookingApp.BookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.Persisted {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Update(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := BookingApp.UpdateBookingCommand{
		BookingID:        c.Param("id"),
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		CustomTotalPrice: req.CustomTotalPrice,
		ClearCustomPrice: req.ClearCustomPrice,
		OverrideConfirm:  req.OverrideConfirm,
	}
	result, err := commands.Dispatch[BookingApp.UpdateBookingCommand, *BookingApp.BookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	if !result.Persisted {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) List(c *gin.Context) {
	q := BookingApp.ListBookingsQuery{LenderID: c.Query("lender_id")}
	result, err := queries.Ask[BookingApp.ListBookingsQuery, []dto.BookingView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
