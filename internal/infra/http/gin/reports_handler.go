package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	ReportsApp "github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/reports"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
)

type ReportsHandler struct {
	Queries queries.Bus
}

func (h ReportsHandler) Payments(c *gin.Context) {
	result, err := queries.Ask[ReportsApp.PaymentListQuery, []dto.PaymentRow](c.Request.Context(), h.Queries, ReportsApp.PaymentListQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReportsHandler) LenderUsage(c *gin.Context) {
	result, err := queries.Ask[ReportsApp.LenderUsageQuery, []dto.LenderUsage](c.Request.Context(), h.Queries, ReportsApp.LenderUsageQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReportsHandler) Prices(c *gin.Context) {
	result, err := queries.Ask[ReportsApp.PriceListQuery, []dto.ApartmentPrice](c.Request.Context(), h.Queries, ReportsApp.PriceListQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReportsHTTP = ReportsHandler{}
