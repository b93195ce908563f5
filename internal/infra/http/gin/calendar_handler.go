package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	CalendarApp "github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/calendar"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
)

type CalendarHandler struct {
	Queries queries.Bus
}

func (h CalendarHandler) Feed(c *gin.Context) {
	result, err := queries.Ask[CalendarApp.FeedQuery, []dto.CalendarEntry](c.Request.Context(), h.Queries, CalendarApp.FeedQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ CalendarHTTP = CalendarHandler{}
