package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	CatalogApp "github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/catalog"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
)

type CatalogHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type lenderRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Street          string `json:"street"`
	HouseNumber     string `json:"house_number"`
	PostalCode      string `json:"postal_code"`
	Country         string `json:"country"`
	Email           string `json:"email"`
	Mobile          string `json:"mobile"`
	WhatsApp        string `json:"whatsapp"`
	Language        string `json:"language"`
	DiscountPercent string `json:"discount_percent"`
}

func (h CatalogHandler) SaveLender(c *gin.Context) {
	var req lenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := CatalogApp.SaveLenderCommand{
		LenderID:        c.Param("id"),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Street:          req.Street,
		HouseNumber:     req.HouseNumber,
		PostalCode:      req.PostalCode,
		Country:         req.Country,
		Email:           req.Email,
		Mobile:          req.Mobile,
		WhatsApp:        req.WhatsApp,
		Language:        req.Language,
		DiscountPercent: req.DiscountPercent,
	}
	result, err := commands.Dispatch[CatalogApp.SaveLenderCommand, *dto.LenderView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if cmd.LenderID != "" {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h CatalogHandler) ListLenders(c *gin.Context) {
	result, err := queries.Ask[CatalogApp.ListLendersQuery, []dto.LenderView](c.Request.Context(), h.Queries, CatalogApp.ListLendersQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type apartmentRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PricePerNight string `json:"price_per_night"`
	IsActive      bool   `json:"is_active"`
	Color         string `json:"color"`
}

func (h CatalogHandler) SaveApartment(c *gin.Context) {
	var req apartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := CatalogApp.SaveApartmentCommand{
		ApartmentID:   c.Param("id"),
		Name:          req.Name,
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		IsActive:      req.IsActive,
		Color:         req.Color,
	}
	result, err := commands.Dispatch[CatalogApp.SaveApartmentCommand, *dto.ApartmentView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if cmd.ApartmentID != "" {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h CatalogHandler) ListApartments(c *gin.Context) {
	result, err := queries.Ask[CatalogApp.ListApartmentsQuery, []dto.ApartmentView](c.Request.Context(), h.Queries, CatalogApp.ListApartmentsQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type seasonalRateRequest struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	PricePerNight string `json:"price_per_night"`
	PercentAdjust string `json:"percent_adjust"`
}

func (h CatalogHandler) SaveSeasonalRate(c *gin.Context) {
	var req seasonalRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := CatalogApp.SaveSeasonalRateCommand{
		ApartmentID:   c.Param("id"),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		PricePerNight: req.PricePerNight,
		PercentAdjust: req.PercentAdjust,
	}
	if _, err := commands.Dispatch[CatalogApp.SaveSeasonalRateCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

var _ CatalogHTTP = CatalogHandler{}
