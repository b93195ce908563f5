package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/KarlGo0815/cbvgoodwill/internal/app/commands"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/dto"
	NotifyApp "github.com/KarlGo0815/cbvgoodwill/internal/app/handlers/notify"
	"github.com/KarlGo0815/cbvgoodwill/internal/app/queries"
)

type NotifyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h NotifyHandler) Resend(c *gin.Context) {
	cmd := NotifyApp.ResendCommand{
		Kind:      c.Param("kind"),
		SubjectID: c.Param("id"),
	}
	if _, err := commands.Dispatch[NotifyApp.ResendCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h NotifyHandler) Sent(c *gin.Context) {
	result, err := queries.Ask[NotifyApp.SentListQuery, []dto.SentConfirmation](c.Request.Context(), h.Queries, NotifyApp.SentListQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ NotifyHTTP = NotifyHandler{}
